package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/transitdb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
		path string
	}{
		{"create dir", CreateDirError("/tmp/dir", cause),
			errcode.CreateDirError, "/tmp/dir"},
		{"copy file", CopyFileError("/tmp/config.yaml", cause),
			errcode.CopyFileError, "/tmp/config.yaml"},
		{"read file", ReadFileError("/tmp/in.json", cause),
			errcode.ReadFileError, "/tmp/in.json"},
		{"input", InputNotFoundError("/tmp/none.json"),
			errcode.InputNotFoundError, "/tmp/none.json"},
	}

	for _, v := range tests {
		gnErr, ok := v.err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, v.code, gnErr.Code, v.msg)
		assert.Equal(t, []any{v.path}, gnErr.Vars, v.msg)
		assert.Contains(t, gnErr.Err.Error(), "TestErrors", v.msg)
		assert.Contains(t, gnErr.Err.Error(), v.path, v.msg)
		if v.code != errcode.InputNotFoundError {
			assert.ErrorIs(t, gnErr.Err, cause, v.msg)
		}
	}
}
