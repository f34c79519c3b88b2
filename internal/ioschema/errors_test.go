package ioschema

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("root cause")

	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
	}{
		{"not connected", NotConnectedError(), errcode.DBNotConnectedError},
		{"gorm", GORMConnectionError(cause), errcode.SchemaGORMConnectionError},
		{"create", CreateSchemaError(cause), errcode.SchemaCreateError},
		{"migrate", MigrateSchemaError(cause), errcode.SchemaMigrateError},
		{"seed", SeedError("home", cause), errcode.SchemaSeedError},
	}

	for _, v := range tests {
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.NotEmpty(t, gnErr.Msg, v.msg)
		assert.Contains(t, gnErr.Err.Error(), "TestErrors", v.msg)
		if v.code != errcode.DBNotConnectedError {
			assert.ErrorIs(t, gnErr.Err, cause, v.msg)
		}
	}

	gnErr := SeedError("home", cause).(*gn.Error)
	assert.Equal(t, []any{"home"}, gnErr.Vars)
}
