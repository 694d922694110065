package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/dto"
	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/services"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, err := execute(t, "ask")

	assert.Error(t, err)
}

func TestAskCmd_NoService(t *testing.T) {
	_, err := execute(t, "ask", "anything?")

	assert.EqualError(t, err, "ask service not configured")
}

func TestAskCmd_NoDocuments(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "ask", "How", "do", "I", "fix", "E42?")

	require.NoError(t, err)
	assert.Contains(t, out, services.NoDocumentsAnswer)
	assert.NotContains(t, out, "Sources:")
	assert.Contains(t, out, "Message ID: ")
}

func TestAskCmd_WithSources(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	uploadTestDocument(t, env)

	out, err := execute(t, "ask", "How do I fix E42?")

	require.NoError(t, err)
	assert.Contains(t, out, "Restart the service.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "[1] guide.txt (chunk ")
	assert.Contains(t, out, "score 1.000)")
}

func TestAskCmd_HideSources(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	uploadTestDocument(t, env)

	out, err := execute(t, "ask", "--sources=false", "How do I fix E42?")

	require.NoError(t, err)
	assert.Contains(t, out, "Restart the service.")
	assert.NotContains(t, out, "Sources:")
}

func TestAskCmd_JSON(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	uploadTestDocument(t, env)

	out, err := execute(t, "ask", "--json", "How do I fix E42?")
	require.NoError(t, err)

	var answer dto.Answer
	require.NoError(t, json.Unmarshal([]byte(out), &answer))
	assert.NotEmpty(t, answer.MessageID)
	assert.Equal(t, "Restart the service.", answer.Answer)
	assert.Equal(t, "How do I fix E42?", answer.Question)
	require.NotEmpty(t, answer.Sources)
	assert.Equal(t, "guide.txt", answer.Sources[0].Chunk.Document.Filename)
}

func TestAskCmd_BlankQuestion(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "ask", "   ")

	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
