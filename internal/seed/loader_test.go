package seed_test

import (
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthportal/m/internal/database"
	"healthportal/m/internal/migrations"
	"healthportal/m/internal/seed"
)

func newDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return db
}

func TestLoadEmbeddedIsIdempotent(t *testing.T) {
	db := newDB(t)
	require.NoError(t, seed.Load(db, ""))
	require.NoError(t, seed.Load(db, ""))

	var medicines, doctors int
	require.NoError(t, db.Get(&medicines, `SELECT COUNT(*) FROM medicines`))
	require.NoError(t, db.Get(&doctors, `SELECT COUNT(*) FROM doctors`))
	assert.Equal(t, 10, medicines)
	assert.Equal(t, 5, doctors)
}

func TestLoadMedicinesSkipsBadRows(t *testing.T) {
	db := newDB(t)
	csv := `name,category,description,manufacturer,price,stock_quantity,requires_prescription
Aspirin 81mg,Cardiovascular,Low dose aspirin,Bayer,4.20,90,false
Broken,Misc,Negative price,Acme,-1.00,5,false
Unstocked,Misc,Bad stock,Acme,1.00,lots,false
,Misc,No name,Acme,1.00,1,false
`
	n, err := seed.LoadMedicines(db, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = seed.LoadMedicines(db, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLoadMissingDir(t *testing.T) {
	db := newDB(t)
	assert.Error(t, seed.Load(db, t.TempDir()))
}
