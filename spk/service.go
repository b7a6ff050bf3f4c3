package spk

import (
	_ "embed"

	"backoffice/records"
)

//go:embed seed.yaml
var seedData []byte

func NewService(store records.Store[SPK]) *records.Service[SPK] {
	return records.NewService(Schema(), store)
}

// Fixtures returns the letters the dashboard starts with.
func Fixtures() ([]SPK, error) {
	return records.LoadSeed[SPK](seedData)
}
