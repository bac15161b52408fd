package loader

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      sql.NullString
		want    int
		null    bool
		wantErr bool
	}{
		{in: sql.NullString{}, null: true},
		{in: sql.NullString{String: "  ", Valid: true}, null: true},
		{in: sql.NullString{String: "08:30", Valid: true}, want: 510},
		{in: sql.NullString{String: "17:45:59", Valid: true}, want: 1065},
		{in: sql.NullString{String: "17:45:59.250000", Valid: true}, want: 1065},
		{in: sql.NullString{String: "24:00", Valid: true}, wantErr: true},
		{in: sql.NullString{String: "12:60", Valid: true}, wantErr: true},
		{in: sql.NullString{String: "noon", Valid: true}, wantErr: true},
		{in: sql.NullString{String: "12:00:99", Valid: true}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in.String, func(t *testing.T) {
			got, err := parseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			if tt.null {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, int(*got))
		})
	}
}
