package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelatedCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := executeCommand("related")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestRelatedCmd_ByAttackID(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("related", "G0007")
	require.NoError(t, err)
	assert.Contains(t, out, "APT28 (G0007) relates to 2 techniques")
	assert.Contains(t, out, "T1566")
	assert.Contains(t, out, "Phishing: Spearphishing Attachment")
	assert.Contains(t, out, "Selected 2 techniques by tactic")
	assert.Regexp(t, `initial-access\s+T1566, T1566\.001`, out)
}

func TestRelatedCmd_ByName(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("related", "--json", "Operation Dream Job")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Operation Dream Job"`)
	assert.Contains(t, out, `"count": 1`)
}

func TestRelatedCmd_NoTechniques(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand("related", "X-Agent")
	require.NoError(t, err)
	assert.Contains(t, out, "relates to no techniques")
}

func TestRelatedCmd_Unknown(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand("related", "G9999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup failed")
}

func TestRelatedCmd_ServiceNotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand("related", "G0007")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relation service not configured")
}
