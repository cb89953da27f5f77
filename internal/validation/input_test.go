package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateJobTitle(t *testing.T) {
	assert.NoError(t, ValidateJobTitle("Сверстать лендинг"))
	assert.Error(t, ValidateJobTitle(""))
	assert.Error(t, ValidateJobTitle("ab"))
	assert.Error(t, ValidateJobTitle(strings.Repeat("а", MaxJobTitleLength+1)))
}

func TestValidateJobDescription(t *testing.T) {
	assert.NoError(t, ValidateJobDescription("Одностраничник по макету в Figma"))
	assert.Error(t, ValidateJobDescription(""))
	assert.Error(t, ValidateJobDescription("коротко"))
}

func TestValidateCoverLetter(t *testing.T) {
	// письмо необязательно
	assert.NoError(t, ValidateCoverLetter(""))
	assert.NoError(t, ValidateCoverLetter("Готов взяться сегодня же"))
	assert.Error(t, ValidateCoverLetter("мало"))
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice(100))
	assert.NoError(t, ValidatePrice(500000))
	assert.Error(t, ValidatePrice(0))
	assert.Error(t, ValidatePrice(-100))
	assert.Error(t, ValidatePrice(99))
	assert.Error(t, ValidatePrice(MaxPrice+1))
}

func TestValidateDeadline(t *testing.T) {
	assert.NoError(t, ValidateDeadline(nil))

	future := time.Now().Add(24 * time.Hour)
	assert.NoError(t, ValidateDeadline(&future))

	past := time.Now().Add(-time.Hour)
	assert.Error(t, ValidateDeadline(&past))
}
