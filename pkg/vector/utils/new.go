// Package vectorutils constructs vector drivers from configuration.
package vectorutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/omniverolabs/omnivero/pkg/vector"
	"github.com/omniverolabs/omnivero/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	ProviderType string
	Target       string
	Dimensions   uint
	Logger       *zap.Logger
}

func NewVectorDriver(o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "sqlite":
		return sqlitevec.NewDriver(sqlitevec.Config{
			DBPath:     o.Target,
			Dimensions: o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
