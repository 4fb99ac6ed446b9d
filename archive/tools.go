package archive

import (
	"crypto/sha1"
	"encoding/hex"
)

// IdempotentID derives a stable record identifier so re-archiving the
// same run overwrites instead of duplicating. Failure rows pass an empty
// index name.
func IdempotentID(runID, specimen, indexName string) string {
	sum := sha1.New()
	_, err := sum.Write([]byte(runID + "#"))
	if err != nil {
		panic("problem generating hash")
	}
	_, err = sum.Write([]byte(specimen + "#"))
	if err != nil {
		panic("problem generating hash")
	}
	_, err = sum.Write([]byte(indexName))
	if err != nil {
		panic("problem generating hash")
	}
	return hex.EncodeToString(sum.Sum(nil))
}
