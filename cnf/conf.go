// Copyright 2026 Isthali S.A.C.
// Copyright 2026 LEDI - Laboratorio de Estructuras
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

package cnf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/Isthali/processingdata/dataimport"
	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
)

const (
	dfltServerWriteTimeoutSecs = 30
	dfltListenAddress          = "127.0.0.1"
	dfltListenPort             = 8090
	dfltTimeZone               = "America/Lima"
	dfltNumWorkers             = 4
	dfltArchiveDBName          = "runs.sqlite"
	dfltRawStoreDirName        = "rawstore"
)

type Conf struct {
	srcPath                string
	Logging                logging.LoggingConf `json:"logging"`
	ListenAddress          string              `json:"listenAddress"`
	ListenPort             int                 `json:"listenPort"`
	ServerReadTimeoutSecs  int                 `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int                 `json:"serverWriteTimeoutSecs"`
	CorsAllowedOrigins     []string            `json:"corsAllowedOrigins"`
	TimeZone               string              `json:"timeZone"`

	// DataDir is the root directory for locally stored data (run archive,
	// raw specimen store, snapshots).
	DataDir       string `json:"dataDir"`
	ArchiveDBPath string `json:"archiveDbPath"`
	RawStorePath  string `json:"rawStorePath"`

	// LIMS is an optional connection to the laboratory information
	// system; when unset, only file imports are available.
	LIMS dataimport.LIMSConf `json:"lims"`

	// NumWorkers is the default per-batch parallelism. Individual
	// actions and API requests may override it.
	NumWorkers int `json:"numWorkers"`

	// ClientName is printed into exported test reports.
	ClientName string `json:"clientName"`
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Conf
	conf.srcPath = path
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return &conf
}

func ValidateAndDefaults(conf *Conf) {
	if conf.ServerWriteTimeoutSecs == 0 {
		conf.ServerWriteTimeoutSecs = dfltServerWriteTimeoutSecs
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default: %d",
			dfltServerWriteTimeoutSecs,
		)
	}
	if conf.ListenAddress == "" {
		conf.ListenAddress = dfltListenAddress
		log.Warn().Str("address", dfltListenAddress).Msg("listenAddress not set, using default")
	}
	if conf.ListenPort == 0 {
		conf.ListenPort = dfltListenPort
		log.Warn().Int("port", dfltListenPort).Msg("listenPort not set, using default")
	}

	if conf.TimeZone == "" {
		conf.TimeZone = dfltTimeZone
		log.Warn().
			Str("timeZone", dfltTimeZone).
			Msg("time zone not specified, using default")
	}
	if _, err := time.LoadLocation(conf.TimeZone); err != nil {
		log.Fatal().Err(err).Msg("invalid time zone")
	}

	if conf.DataDir == "" {
		log.Fatal().Msg("dataDir not specified")
	}
	if conf.ArchiveDBPath == "" {
		conf.ArchiveDBPath = filepath.Join(conf.DataDir, dfltArchiveDBName)
		log.Warn().Str("path", conf.ArchiveDBPath).Msg("archiveDbPath not set, using default")
	}
	if conf.RawStorePath == "" {
		conf.RawStorePath = filepath.Join(conf.DataDir, dfltRawStoreDirName)
		log.Warn().Str("path", conf.RawStorePath).Msg("rawStorePath not set, using default")
	}
	if conf.NumWorkers == 0 {
		conf.NumWorkers = dfltNumWorkers
	}
}
