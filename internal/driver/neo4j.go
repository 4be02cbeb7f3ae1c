package driver

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neo4jconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"

	"github.com/agenthands/kgevidence/internal/logger"
)

type Options struct {
	URI         string
	User        string
	Password    string
	Database    string
	MaxPoolSize int
	Timeout     time.Duration
}

type Neo4jDriver struct {
	Driver   neo4j.DriverWithContext
	database string
	log      *logger.Logger
}

// NewNeo4jDriver opens a pooled driver and checks connectivity within opts.Timeout.
func NewNeo4jDriver(ctx context.Context, opts Options, log *logger.Logger) (*Neo4jDriver, error) {
	if log == nil {
		log = logger.Nop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	d, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.User, opts.Password, ""),
		func(c *neo4jconfig.Config) {
			if opts.MaxPoolSize > 0 {
				c.MaxConnectionPoolSize = opts.MaxPoolSize
			}
			c.SocketConnectTimeout = opts.Timeout
			c.ConnectionAcquisitionTimeout = opts.Timeout
		})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create neo4j driver", goerr.V("uri", opts.URI))
	}

	vctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := d.VerifyConnectivity(vctx); err != nil {
		_ = d.Close(context.Background())
		return nil, goerr.Wrap(err, "failed to connect to neo4j", goerr.V("uri", opts.URI))
	}

	log.Info("Connected to Neo4j", "uri", opts.URI, "database", opts.Database)
	return &Neo4jDriver{Driver: d, database: opts.Database, log: log}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if d.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(d.database))
	}
	opts = append(opts, neo4j.ExecuteQueryWithReadersRouting())

	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return neo4j.EagerResult{}, goerr.Wrap(err, "failed to execute query")
	}
	return *result, nil
}

// BuildIndices creates the lookup indices the verify and recommend queries rely on.
// Failures are logged and skipped; the graph may be read-only.
func (d *Neo4jDriver) BuildIndices(ctx context.Context) error {
	for _, q := range IndexQueries {
		if _, err := neo4j.ExecuteQuery(ctx, d.Driver, q, nil, neo4j.EagerResultTransformer, d.writeOpts()...); err != nil {
			d.log.Warn("failed to create index", "query", q, "error", err)
		}
	}
	return nil
}

func (d *Neo4jDriver) writeOpts() []neo4j.ExecuteQueryConfigurationOption {
	if d.database == "" {
		return nil
	}
	return []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithDatabase(d.database)}
}
