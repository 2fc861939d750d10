package feed_test

import (
	"context"
	"testing"

	"github.com/programme-lv/resolver/contest"
	"github.com/programme-lv/resolver/feed"
	"github.com/programme-lv/resolver/logger"
	"github.com/programme-lv/resolver/srvcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantKind feed.Kind
		wantErr  string
		wantType any
	}{
		{
			name:     "contest",
			line:     contestLine,
			wantKind: feed.KindContest,
			wantType: feed.ContestEvent{},
		},
		{
			name:     "team",
			line:     `{"type":"teams","data":{"id":"t1","group_ids":["g1"]}}`,
			wantKind: feed.KindTeams,
			wantType: feed.TeamEvent{},
		},
		{
			name:     "ignored kind",
			line:     `{"type":"clarifications","data":{"id":"x"}}`,
			wantKind: feed.KindClarifications,
			wantType: feed.Ignored{},
		},
		{
			name:     "null data",
			line:     `{"type":"teams","data":null}`,
			wantKind: feed.KindTeams,
			wantType: feed.Empty{},
		},
		{
			name:     "absent data",
			line:     `{"type":"awards","id":"a1"}`,
			wantKind: feed.KindAwards,
			wantType: feed.Empty{},
		},
		{
			name:    "unsupported type",
			line:    `{"type":"scoreboard","data":{}}`,
			wantErr: feed.ErrCodeUnsupportedEventType,
		},
		{
			name:    "missing type",
			line:    `{"data":{"id":"x"}}`,
			wantErr: feed.ErrCodeMalformedLine,
		},
		{
			name:    "not json",
			line:    `hello`,
			wantErr: feed.ErrCodeMalformedLine,
		},
		{
			name:    "payload of wrong shape",
			line:    `{"type":"teams","data":{"id":5}}`,
			wantErr: feed.ErrCodeMalformedPayload,
		},
		{
			name:    "submission without team",
			line:    `{"type":"submissions","data":{"id":"s1","problem_id":"A","contest_time":"0:01:00"}}`,
			wantErr: feed.ErrCodeMissingField,
		},
		{
			name:    "submission without any time",
			line:    `{"type":"submissions","data":{"id":"s1","team_id":"t","problem_id":"A"}}`,
			wantErr: feed.ErrCodeMissingField,
		},
		{
			name:    "contest without duration",
			line:    `{"type":"contest","data":{"id":"c","scoreboard_freeze_duration":"1:00:00"}}`,
			wantErr: feed.ErrCodeMissingField,
		},
		{
			name:    "bad relative time",
			line:    `{"type":"contest","data":{"id":"c","duration":"five hours","scoreboard_freeze_duration":"1:00:00"}}`,
			wantErr: feed.ErrCodeMalformedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := feed.Decode([]byte(tt.line))
			if tt.wantErr != "" {
				var se *srvcerror.Error
				require.ErrorAs(t, err, &se)
				assert.Equal(t, tt.wantErr, se.ErrorCode())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, ev.Kind())
			assert.IsType(t, tt.wantType, ev)
		})
	}
}

func TestDecodeMissingFieldNamesField(t *testing.T) {
	_, err := feed.Decode([]byte(`{"type":"judgements","data":{"id":"j1"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submission_id")
}

func TestApplyEmptyBeforeContestIsNoop(t *testing.T) {
	ctx := logger.Discard(context.Background())
	st := contest.NewState()

	require.NoError(t, feed.Apply(ctx, st, feed.Empty{Of: feed.KindTeams}))
	require.NoError(t, feed.Apply(ctx, st, feed.Ignored{Of: feed.KindRuns}))
	assert.Nil(t, st.Contest)
	assert.Empty(t, st.Teams)
}

func TestApplyContestReplacesAndDerivesFreeze(t *testing.T) {
	ctx := logger.Discard(context.Background())
	st := contest.NewState()

	ev, err := feed.Decode([]byte(contestLine))
	require.NoError(t, err)
	require.NoError(t, feed.Apply(ctx, st, ev))
	require.NotNil(t, st.Contest.ScoreboardFreezeTime)

	ev, err = feed.Decode([]byte(`{"type":"contest","data":{"id":"wf2","duration":"5:00:00","scoreboard_freeze_duration":"1:00:00"}}`))
	require.NoError(t, err)
	require.NoError(t, feed.Apply(ctx, st, ev))
	assert.Equal(t, "wf2", st.Contest.ID)
	// no start time, no freeze time
	assert.Nil(t, st.Contest.ScoreboardFreezeTime)
}
