package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/dto"
	"github.com/custodia-labs/codeaid/internal/core/domain"
)

func TestFeedbackCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(feedbackCmd.Commands()))
	for _, c := range feedbackCmd.Commands() {
		names = append(names, c.Name())
	}

	assert.ElementsMatch(t, []string{"submit", "list"}, names)
}

func TestFeedbackSubmitCmd_RequiresTwoArgs(t *testing.T) {
	_, err := execute(t, "feedback", "submit", "msg-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestFeedbackSubmitCmd_NoService(t *testing.T) {
	_, err := execute(t, "feedback", "submit", "msg-1", "5")

	assert.EqualError(t, err, "feedback service not configured")
}

func TestFeedbackSubmitCmd_NotANumber(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "feedback", "submit", "msg-1", "great")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating must be a number")
}

func TestFeedbackSubmitCmd_OutOfRange(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	for _, rating := range []string{"0", "6", "-1"} {
		_, err := execute(t, "feedback", "submit", "msg-1", rating)

		require.Error(t, err, rating)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), rating)
	}
}

func TestFeedbackSubmitCmd_Success(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "feedback", "submit", "msg-1", "4", "--comment", "helpful")

	require.NoError(t, err)
	assert.Contains(t, out, "Recorded rating 4/5 for msg-1")

	out, err = execute(t, "feedback", "list", "msg-1")
	require.NoError(t, err)
	assert.Contains(t, out, "4/5  msg-1")
	assert.Contains(t, out, `"helpful"`)
	assert.Contains(t, out, "Total: 1 ratings")
}

func TestFeedbackSubmitCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "feedback", "submit", "--json", "msg-2", "2")
	require.NoError(t, err)

	var resp dto.FeedbackResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "msg-2", resp.Feedback.MessageID)
	assert.Equal(t, 2, resp.Feedback.Rating)
	assert.NotEmpty(t, resp.Feedback.ID)
}

func TestFeedbackListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "feedback", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No feedback recorded.")
}

func TestFeedbackListCmd_FiltersByMessage(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "feedback", "submit", "msg-a", "5")
	require.NoError(t, err)
	_, err = execute(t, "feedback", "submit", "msg-b", "1")
	require.NoError(t, err)

	out, err := execute(t, "feedback", "list", "--json", "msg-b")
	require.NoError(t, err)

	var resp map[string][]dto.Feedback
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp["feedback"], 1)
	assert.Equal(t, "msg-b", resp["feedback"][0].MessageID)

	out, err = execute(t, "feedback", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 2 ratings")
}
