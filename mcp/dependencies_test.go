package mcp

import (
	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/config"
)

func NewTestDependencies(fr domain.FileReader, cfg *config.Config, path string) *Dependencies {
	d := NewDependencies(cfg, path)
	d.fileReader = fr
	return d
}
