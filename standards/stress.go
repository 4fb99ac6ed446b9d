// Copyright 2025 Isthali S.A.C.
// Copyright 2025 LEDI - Laboratorio de Estructuras
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package standards

// FlexuralStress converts a center-point beam load to flexural stress per
// the EN 14651 formula f = 3FL / (2bd2). Load in kN, dimensions in mm,
// result in MPa.
func FlexuralStress(loadKN, span, width, depth float64) float64 {
	return 3 * loadKN * 1e3 * span / (2 * width * depth * depth)
}

// ThirdPointStress converts a third-point beam load to flexural stress
// per the ASTM C1609 formula f = FL / (bd2). Load in kN, dimensions in
// mm, result in MPa.
func ThirdPointStress(loadKN, span, width, depth float64) float64 {
	return loadKN * 1e3 * span / (width * depth * depth)
}
