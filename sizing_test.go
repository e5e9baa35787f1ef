package threadpool

import (
	"testing"
	"time"
)

func Test_shouldGrow(t *testing.T) {
	type args struct {
		pending, idle, current, ceiling int
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{name: "1. idleCoversPending", args: args{pending: 1, idle: 1, current: 1, ceiling: 4}, want: false},
		{name: "2. morePendingThanIdle", args: args{pending: 2, idle: 1, current: 1, ceiling: 4}, want: true},
		{name: "3. noIdle", args: args{pending: 1, idle: 0, current: 3, ceiling: 4}, want: true},
		{name: "4. atCeiling", args: args{pending: 10, idle: 0, current: 4, ceiling: 4}, want: false},
		{name: "5. emptyQueue", args: args{pending: 0, idle: 0, current: 1, ceiling: 4}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldGrow(tt.args.pending, tt.args.idle, tt.args.current, tt.args.ceiling); got != tt.want {
				t.Errorf("shouldGrow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_shouldRetire(t *testing.T) {
	type args struct {
		idleFor, idleTimeout time.Duration
		current, floor       int
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{name: "1. notIdleLongEnough", args: args{idleFor: time.Second, idleTimeout: time.Minute, current: 4, floor: 1}, want: false},
		{name: "2. idleAboveFloor", args: args{idleFor: time.Minute, idleTimeout: time.Minute, current: 4, floor: 1}, want: true},
		{name: "3. idleAtFloor", args: args{idleFor: time.Hour, idleTimeout: time.Minute, current: 1, floor: 1}, want: false},
		{name: "4. justAboveFloor", args: args{idleFor: 2 * time.Minute, idleTimeout: time.Minute, current: 2, floor: 1}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRetire(tt.args.idleFor, tt.args.idleTimeout, tt.args.current, tt.args.floor); got != tt.want {
				t.Errorf("shouldRetire() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "fixed", want: ModeFixed},
		{in: "", want: ModeFixed},
		{in: "CACHED", want: ModeCached},
		{in: " elastic ", want: ModeCached},
		{in: "dynamic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseMode() = %v, want %v", got, tt.want)
			}
		})
	}
}
