package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Nothing in the store deletes users or channels; cleaning up binds when a
// parent row goes away is owned entirely by the schema. Pin the cascade
// clauses so a migration rewrite cannot drop them silently.
func TestBindForeignKeysCascade(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "migrations", "000001_create_tables.up.sql"))
	require.NoError(t, err)
	ddl := string(data)

	require.Contains(t, ddl, "REFERENCES users (id) ON DELETE CASCADE")
	require.Contains(t, ddl, "REFERENCES channels (id) ON DELETE CASCADE")
	require.Contains(t, ddl, "PRIMARY KEY (user_id, channel_id)")
}

func TestSchemaUniqueKeys(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "migrations", "000001_create_tables.up.sql"))
	require.NoError(t, err)
	ddl := string(data)

	require.Contains(t, ddl, "account_id  BIGINT NOT NULL UNIQUE")
	require.Contains(t, ddl, "channel_id  BIGINT NOT NULL UNIQUE")
}
