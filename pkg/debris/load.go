package debris

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/orbitarch/orbitarch-service-go/log"
)

type (
	loadConfig struct {
		pool  *pgxpool.Pool
		sheet string
		l     *log.Logger
	}
	LoadOption func(*loadConfig)
)

// WithPool provides the pool used for postgresql:// sources. Without it a
// pool is created from the source url for the duration of the load.
func WithPool(pool *pgxpool.Pool) LoadOption {
	return func(c *loadConfig) {
		c.pool = pool
	}
}

// WithSheet selects the worksheet of xlsx sources, default is the first one.
func WithSheet(sheet string) LoadOption {
	return func(c *loadConfig) {
		c.sheet = sheet
	}
}

func WithLogger(l *log.Logger) LoadOption {
	return func(c *loadConfig) {
		c.l = l
	}
}

func IsPostgresSource(source string) bool {
	return strings.HasPrefix(source, "postgresql://") || strings.HasPrefix(source, "postgres://")
}

// Load reads the debris table from a csv, xlsx or yaml file or a postgres database.
func Load(ctx context.Context, source string, opts ...LoadOption) (*Table, error) {
	cfg := &loadConfig{l: log.Default().Named("debris")}
	for _, opt := range opts {
		opt(cfg)
	}
	var records []Record
	var err error
	ext := strings.ToLower(filepath.Ext(source))
	switch {
	case IsPostgresSource(source):
		records, err = loadPostgres(ctx, source, cfg.pool)
	case ext == ".csv":
		records, err = withFile(source, ReadCSV)
	case ext == ".xlsx":
		records, err = withFile(source, func(r io.Reader) ([]Record, error) {
			return ReadXLSX(r, cfg.sheet)
		})
	case ext == ".yaml" || ext == ".yml":
		records, err = withFile(source, ReadYAML)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, source)
	}
	if err != nil {
		return nil, fmt.Errorf("load debris from %s: %w", redact(source), err)
	}
	cfg.l.Info("debris table loaded",
		log.String("source", redact(source)),
		log.Int("records", len(records)),
		log.Int("defaultMass", CountMassDefaulted(records)))
	return NewTable(records), nil
}

// CountMassDefaulted returns the number of records without mass in the source.
func CountMassDefaulted(records []Record) int {
	return lo.CountBy(records, func(r Record) bool { return r.MassDefaulted })
}

func withFile(name string, read func(io.Reader) ([]Record, error)) ([]Record, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

// ReadCSV parses a csv debris table with a header line.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// ReadXLSX parses a worksheet whose first row is the header.
func ReadXLSX(r io.Reader, sheet string) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptySource
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

type yamlRecord struct {
	Name     string   `yaml:"name"`
	Mass     *float64 `yaml:"mass"`
	Elements struct {
		SemiMajorAxis   float64 `yaml:"semiMajorAxis"`
		Eccentricity    float64 `yaml:"eccentricity"`
		Inclination     float64 `yaml:"inclination"`
		RaOfAscNode     float64 `yaml:"raOfAscNode"`
		ArgOfPericenter float64 `yaml:"argOfPericenter"`
		MeanAnomaly     float64 `yaml:"meanAnomaly"`
		MeanMotion      float64 `yaml:"meanMotion"`
		VelocityPerigee float64 `yaml:"velocityPerigee"`
		VelocityApogee  float64 `yaml:"velocityApogee"`
	} `yaml:"elements"`
}

// ReadYAML parses a yaml document containing a list of debris records.
func ReadYAML(r io.Reader) ([]Record, error) {
	var raw []yamlRecord
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return []Record{}, nil
		}
		return nil, err
	}
	return lo.Map(raw, func(y yamlRecord, _ int) Record {
		e := y.Elements
		return Record{
			Name:          y.Name,
			Mass:          lo.FromPtrOr(y.Mass, DefaultMass),
			MassDefaulted: y.Mass == nil,
			Elements:      elementsFrom([9]float64{
				e.SemiMajorAxis, e.Eccentricity, e.Inclination,
				e.RaOfAscNode, e.ArgOfPericenter, e.MeanAnomaly,
				e.MeanMotion, e.VelocityPerigee, e.VelocityApogee,
			}),
		}
	}), nil
}

// redact removes credentials from database urls before logging.
func redact(source string) string {
	if !IsPostgresSource(source) {
		return source
	}
	scheme, rest, _ := strings.Cut(source, "://")
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}
