package options

import (
	"testing"

	"tableflip.dev/agenda/pkg/day"
)

func TestOnOptionsGetDay(t *testing.T) {
	today := day.MustParse("2024-07-01")
	tests := []struct {
		on      string
		want    string
		wantErr bool
	}{
		{on: "", want: "2024-07-01"},
		{on: "tomorrow", want: "2024-07-02"},
		{on: "-1", want: "2024-06-30"},
		{on: "2024-12-25", want: "2024-12-25"},
		{on: "Aug 3", want: "2024-08-03"},
		{on: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.on, func(t *testing.T) {
			o := &OnOptions{OnString: tt.on}
			got, err := o.GetDay(today)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.Key() != tt.want {
				t.Fatalf("got %s, want %s", got.Key(), tt.want)
			}
		})
	}
}
