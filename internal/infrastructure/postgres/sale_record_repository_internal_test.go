package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/authors-report/internal/domain/repository"
)

func TestBuildListQuery(t *testing.T) {
	from := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.October, 31, 23, 59, 59, 0, time.UTC)

	t.Run("sin filtros", func(t *testing.T) {
		sql, args, err := buildListQuery(repository.SaleRecordFilter{})
		require.NoError(t, err)
		assert.NotContains(t, sql, "WHERE")
		assert.Contains(t, sql, "FROM sale_records ORDER BY sale_date, id")
		assert.Empty(t, args)
	})

	t.Run("período y contrato", func(t *testing.T) {
		sql, args, err := buildListQuery(repository.SaleRecordFilter{From: &from, To: &to, GroupID: "C1"})
		require.NoError(t, err)
		assert.Contains(t, sql, "WHERE sale_date >= $1 AND sale_date <= $2 AND group_id = $3")
		assert.Equal(t, []interface{}{from, to, "C1"}, args)
	})

	t.Run("solo hasta", func(t *testing.T) {
		sql, args, err := buildListQuery(repository.SaleRecordFilter{To: &to})
		require.NoError(t, err)
		assert.Contains(t, sql, "WHERE sale_date <= $1")
		assert.Len(t, args, 1)
	})
}
