package resign

import (
	_ "embed"

	"backoffice/records"
)

//go:embed seed.yaml
var seedData []byte

func NewService(store records.Store[Request]) *records.Service[Request] {
	return records.NewService(Schema(), store)
}

func Fixtures() ([]Request, error) {
	return records.LoadSeed[Request](seedData)
}
