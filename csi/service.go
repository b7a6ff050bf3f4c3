package csi

import (
	_ "embed"

	"backoffice/records"
)

//go:embed seed.yaml
var seedData []byte

func NewService(store records.Store[Survey]) *records.Service[Survey] {
	return records.NewService(Schema(), store)
}

// Fixtures returns the seed surveys with their index computed.
func Fixtures() ([]Survey, error) {
	surveys, err := records.LoadSeed[Survey](seedData)
	if err != nil {
		return nil, err
	}
	for i := range surveys {
		surveys[i].Index = Index(surveys[i].Aspects)
	}
	return surveys, nil
}
