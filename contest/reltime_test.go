package contest_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/programme-lv/resolver/contest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"5:00:00", 5 * time.Hour},
		{"5:00:00.000", 5 * time.Hour},
		{"1:00:00.000", time.Hour},
		{"0:25:30.999999", 25*time.Minute + 30*time.Second},
		{"-0:10:00", -10 * time.Minute},
		{"12:34:56", 12*time.Hour + 34*time.Minute + 56*time.Second},
		{"100:59:59", 100*time.Hour + 59*time.Minute + 59*time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := contest.ParseRelTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Duration())
		})
	}
}

func TestParseRelTimeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "5:00", "a:00:00", "1:b:00", "1:00:c", "1:00:00:00",
		"0:00:NaN", "0:00:Inf", "0:00:0x1p4", "0:00:1e1", "0:99:00", "0:00:60", "0:+5:00",
		"0:00:05.", "0:00:05.1a", "--1:00:00", "-1:-5:00",
	} {
		_, err := contest.ParseRelTime(in)
		assert.Errorf(t, err, "expected error for %q", in)
	}
}

func TestRelTimeJSON(t *testing.T) {
	var v struct {
		D *contest.RelTime `json:"d"`
		N *contest.RelTime `json:"n"`
	}
	err := json.Unmarshal([]byte(`{"d":"1:30:00.000","n":null}`), &v)
	require.NoError(t, err)
	require.NotNil(t, v.D)
	assert.Nil(t, v.N)
	assert.Equal(t, 90*time.Minute, v.D.Duration())

	out, err := json.Marshal(v.D)
	require.NoError(t, err)
	assert.Equal(t, `"1:30:00.000"`, string(out))

	err = json.Unmarshal([]byte(`{"d":90}`), &v)
	assert.Error(t, err)
}

func TestContestMinutesFloors(t *testing.T) {
	assert.Equal(t, int64(25), contest.ContestMinutes(25*time.Minute+59*time.Second))
	assert.Equal(t, int64(0), contest.ContestMinutes(59*time.Second))
	assert.Equal(t, int64(-1), contest.ContestMinutes(-30*time.Second))
	assert.Equal(t, int64(-2), contest.ContestMinutes(-2*time.Minute))
}

func TestDeriveFreezeTime(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	dur := contest.RelTime(5 * time.Hour)
	freeze := contest.RelTime(time.Hour)
	c := contest.Contest{ID: "c", StartTime: &start, Duration: &dur, ScoreboardFreezeDuration: &freeze}

	c.DeriveFreezeTime()
	require.NotNil(t, c.ScoreboardFreezeTime)
	assert.Equal(t, start.Add(4*time.Hour), *c.ScoreboardFreezeTime)

	c.StartTime = nil
	c.DeriveFreezeTime()
	assert.Nil(t, c.ScoreboardFreezeTime)
}
