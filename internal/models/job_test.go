package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseJobStatus(t *testing.T) {
	for _, valid := range []string{JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled} {
		status, err := ParseJobStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, status)
	}

	_, err := ParseJobStatus("archived")
	assert.Error(t, err)

	_, err = ParseJobStatus("")
	assert.Error(t, err)
}

func TestIsJobTransitionAllowed(t *testing.T) {
	assert.True(t, IsJobTransitionAllowed(JobStatusOpen, JobStatusInProgress))
	assert.True(t, IsJobTransitionAllowed(JobStatusOpen, JobStatusCancelled))
	assert.True(t, IsJobTransitionAllowed(JobStatusInProgress, JobStatusCompleted))

	// in_progress нельзя отменить, оплата должна завершиться
	assert.False(t, IsJobTransitionAllowed(JobStatusInProgress, JobStatusCancelled))

	// терминальные состояния
	assert.False(t, IsJobTransitionAllowed(JobStatusCompleted, JobStatusOpen))
	assert.False(t, IsJobTransitionAllowed(JobStatusCancelled, JobStatusOpen))
	assert.False(t, IsJobTransitionAllowed(JobStatusCompleted, JobStatusInProgress))

	// обратных переходов нет
	assert.False(t, IsJobTransitionAllowed(JobStatusInProgress, JobStatusOpen))

	// неизвестный статус ничего не разрешает
	assert.False(t, IsJobTransitionAllowed("archived", JobStatusOpen))
}

func TestSubscriptionRemaining(t *testing.T) {
	sub := Subscription{JobLimit: 5, JobsPosted: 2}
	assert.Equal(t, 3, sub.Remaining())

	sub.JobsPosted = 5
	assert.Equal(t, 0, sub.Remaining())

	sub.JobsPosted = 7
	assert.Equal(t, 0, sub.Remaining())
}

func TestSubscriptionIsUsable(t *testing.T) {
	now := time.Now()

	active := Subscription{JobLimit: 5, JobsPosted: 0, ExpiresAt: now.Add(24 * time.Hour)}
	assert.True(t, active.IsUsable(now))

	expired := Subscription{JobLimit: 5, JobsPosted: 0, ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, expired.IsUsable(now))

	exhausted := Subscription{JobLimit: 5, JobsPosted: 5, ExpiresAt: now.Add(24 * time.Hour)}
	assert.False(t, exhausted.IsUsable(now))
}
