package generator

import "github.com/toyz/rsbind/internal/models"

// CodeGenerator defines the interface for generating reactive-stream bindings from a typed namespace
type CodeGenerator interface {
	Generate(ns *models.Namespace) ([]models.GeneratedFile, error)
	GenerateWithConfig(ns *models.Namespace, cfg models.Config) ([]models.GeneratedFile, error)
}

var _ CodeGenerator = (*Generator)(nil)
