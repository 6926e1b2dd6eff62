package exporterimpl

import (
	"strings"

	"github.com/orgball2608/facebook-group-parser/internal/exporter"
	"github.com/orgball2608/facebook-group-parser/pkg/config"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

// NewAll builds the exporter set selected by EXPORT_FORMATS. Unknown format
// names are logged and skipped.
func NewAll(opts Opts) []exporter.Exporter {
	var exporters []exporter.Exporter
	dir := opts.Config.Export.Dir

	for _, format := range strings.Split(opts.Config.Export.Formats, ",") {
		switch strings.TrimSpace(strings.ToLower(format)) {
		case "json":
			exporters = append(exporters, NewJSON(dir, opts.Logger))
		case "csv":
			exporters = append(exporters, NewCSV(dir, opts.Logger))
		case "sqlite":
			exporters = append(exporters, NewSQLite(dir, opts.Logger))
		case "":
		default:
			opts.Logger.Warn("Unknown export format, skipping", "format", format)
		}
	}
	return exporters
}

var Module = fx.Module("exporters", fx.Provide(NewAll))
