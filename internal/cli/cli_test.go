package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/mt799-service/internal/application/dto"
	"github.com/bibbank/mt799-service/internal/cli"
	"github.com/bibbank/mt799-service/pkg/testutil"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "msg.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := run(t, "", "validate", writeFile(t, testutil.SampleMT799()))
		require.NoError(t, err)
		assert.Equal(t, "valid\n", out)
	})

	t.Run("invalid", func(t *testing.T) {
		out, err := run(t, "", "validate", writeFile(t, "{1:F01PRCBBGSFAXXX1111111111"+testutil.SampleApplicationHeader+testutil.SampleTextBlock+testutil.SampleTrailer))
		assert.ErrorIs(t, err, cli.ErrInvalid)
		assert.Equal(t, "invalid (Basic Header Block): Basic Header Block is missing or invalid.\n", out)
	})

	t.Run("stdin", func(t *testing.T) {
		out, err := run(t, testutil.SampleMT799(), "validate", "-")
		require.NoError(t, err)
		assert.Equal(t, "valid\n", out)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "", "validate", filepath.Join(t.TempDir(), "absent.txt"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, cli.ErrInvalid)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := run(t, "", "validate", "--validation-policy", "fuzzy", writeFile(t, testutil.SampleMT799()))
		assert.Error(t, err)
	})
}

func TestParseCommand(t *testing.T) {
	path := writeFile(t, testutil.SampleMT799())

	t.Run("table", func(t *testing.T) {
		out, err := run(t, "", "parse", path)
		require.NoError(t, err)
		assert.Contains(t, out, "PRCBBGSFAXXX")
		assert.Contains(t, out, "BANKBEBBAXXX")
		assert.Contains(t, out, ":20:")
		assert.Contains(t, out, "REF1")
		assert.Contains(t, out, "123456")
	})

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "", "parse", "--json", path)
		require.NoError(t, err)

		var resp dto.ValidateMessageResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.True(t, resp.Valid)
		require.NotNil(t, resp.Fields)
		assert.Equal(t, "Line one\nLine two", resp.Fields.MessageText)
		assert.Equal(t, "ABCDEF", resp.Fields.DigitalSignature)
	})

	t.Run("json invalid", func(t *testing.T) {
		out, err := run(t, "", "parse", "--json", writeFile(t, "nonsense"))
		assert.ErrorIs(t, err, cli.ErrInvalid)

		var resp dto.ValidateMessageResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.False(t, resp.Valid)
		assert.Equal(t, "Invalid SWIFT MT799 message format.", resp.Reason)
	})
}

func TestSegmentCommand(t *testing.T) {
	out, err := run(t, "", "segment", writeFile(t, testutil.SampleBasicHeader+"{2:open"+testutil.SampleTextBlock+testutil.SampleTrailer))
	require.NoError(t, err)
	assert.Contains(t, out, testutil.SampleBasicHeader)
	assert.Contains(t, out, "(missing)")
}

func TestPolicyFromEnvironment(t *testing.T) {
	t.Setenv("MT799_VALIDATION_POLICY", "fuzzy")
	_, err := run(t, "", "validate", writeFile(t, testutil.SampleMT799()))
	assert.Error(t, err)

	_, err = run(t, "", "validate", "--validation-policy", "pattern", writeFile(t, testutil.SampleMT799()))
	assert.NoError(t, err, "flags win over the environment")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "develop\n", out)
}
