package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/flexprice/productcatalog/internal/domain/catalog"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/prod.json", testutil.DigitalSubscriptionCatalog(), 0o644))
	return fs
}

func TestRunWritesGoSource(t *testing.T) {
	fs := setupFs(t)
	err := run(context.Background(),
		[]string{"-stage", "prod", "-in", "/in/prod.json", "-out", "/out/keys_gen.go", "-package", "keys"},
		&bytes.Buffer{}, fs, logger.NewNoopLogger())
	require.NoError(t, err)

	src, err := afero.ReadFile(fs, "/out/keys_gen.go")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), "// Code generated by catalog-keys. DO NOT EDIT."))
	assert.Contains(t, string(src), "package keys")
	assert.Contains(t, string(src), `ProductDigitalSubscription ProductKey = "Digital Subscription"`)
}

func TestRunWritesJSONToStdout(t *testing.T) {
	var stdout bytes.Buffer
	err := run(context.Background(),
		[]string{"-in", "/in/prod.json", "-format", "json"},
		&stdout, setupFs(t), logger.NewNoopLogger())
	require.NoError(t, err)

	var schema catalog.KeySchema
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &schema))
	require.Len(t, schema.Products, 1)
	assert.Equal(t, "Digital Subscription", schema.Products[0].Key)
}

func TestRunIsStable(t *testing.T) {
	fs := setupFs(t)
	var first, second bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-in", "/in/prod.json", "-format", "yaml"}, &first, fs, logger.NewNoopLogger()))
	require.NoError(t, run(context.Background(), []string{"-in", "/in/prod.json", "-format", "yaml"}, &second, fs, logger.NewNoopLogger()))
	assert.Equal(t, first.String(), second.String())
}

func TestRunRejectsBadInput(t *testing.T) {
	fs := setupFs(t)
	log := logger.NewNoopLogger()
	ctx := context.Background()

	err := run(ctx, []string{"-stage", "QA", "-in", "/in/prod.json"}, &bytes.Buffer{}, fs, log)
	assert.True(t, ierr.IsValidation(err))

	err = run(ctx, []string{"-in", "/in/prod.json", "-format", "toml"}, &bytes.Buffer{}, fs, log)
	assert.True(t, ierr.IsValidation(err))

	err = run(ctx, []string{"-in", "/in/missing.json"}, &bytes.Buffer{}, fs, log)
	assert.True(t, ierr.IsFetch(err))

	require.NoError(t, afero.WriteFile(fs, "/in/bad.json", []byte(`{"products":[{"id":"p1","name":"A","productRatePlans":[{"id":"r","name":"B","productRatePlanCharges":[{"id":"c","name":"C","type":"Recurring","pricing":[{"currency":"GBP","price":"1"}]}]}]}]}`), 0o644))
	err = run(ctx, []string{"-in", "/in/bad.json"}, &bytes.Buffer{}, fs, log)
	var verr *catalog.ValidationError
	require.True(t, ierr.As(err, &verr))
	assert.Equal(t, "products[0].productRatePlans[0].productRatePlanCharges[0].pricing[0].price", verr.Path)
}
