package report

import (
	"reflect"
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		series  Series
		total   int
		want    Report
		wantErr error
	}{
		{
			name:    "misaligned series",
			series:  Series{Dates: []string{"2021-03-01", "2021-03-02"}, Rates: []float64{80}},
			total:   10,
			wantErr: ErrSeriesMismatch,
		},
		{
			name:   "empty series",
			series: Series{},
			total:  10,
			want:   Report{ClassID: "c1", TotalStudents: 10, Days: []DayBreakdown{}},
		},
		{
			name:   "typical week",
			series: Series{Dates: []string{"2021-03-01", "2021-03-02", "2021-03-03"}, Rates: []float64{80, 100, 60}},
			total:  20,
			want: Report{
				ClassID:       "c1",
				TotalStudents: 20,
				AverageRate:   80,
				MaxRate:       100,
				MinRate:       60,
				Days: []DayBreakdown{
					{Date: "2021-03-01", PresentCount: 16, AbsentCount: 4, Rate: 80},
					{Date: "2021-03-02", PresentCount: 20, AbsentCount: 0, Rate: 100},
					{Date: "2021-03-03", PresentCount: 12, AbsentCount: 8, Rate: 60},
				},
			},
		},
		{
			name:   "rounding to one decimal",
			series: Series{Dates: []string{"2021-03-01", "2021-03-02"}, Rates: []float64{66.666666, 33.333333}},
			total:  3,
			want: Report{
				ClassID:       "c1",
				TotalStudents: 3,
				AverageRate:   50,
				MaxRate:       66.7,
				MinRate:       33.3,
				Days: []DayBreakdown{
					{Date: "2021-03-01", PresentCount: 2, AbsentCount: 1, Rate: 66.7},
					{Date: "2021-03-02", PresentCount: 1, AbsentCount: 2, Rate: 33.3},
				},
			},
		},
		{
			name:   "empty roster",
			series: Series{Dates: []string{"2021-03-01"}, Rates: []float64{0}},
			total:  0,
			want: Report{
				ClassID: "c1",
				Days: []DayBreakdown{
					{Date: "2021-03-01", PresentCount: 0, AbsentCount: 0, Rate: 0},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build("c1", tt.series, tt.total)
			if err != tt.wantErr {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Build() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReport_RenderCSV(t *testing.T) {
	r := Report{
		ClassID:       "c1",
		TotalStudents: 2,
		Days: []DayBreakdown{
			{Date: "2021-03-01", PresentCount: 1, AbsentCount: 1, Rate: 50},
		},
	}
	buf, err := r.RenderCSV()
	if err != nil {
		t.Fatalf("RenderCSV() failed: %v", err)
	}
	want := "date,present,absent,rate\n2021-03-01,1,1,50.0\n"
	if got := buf.String(); got != want {
		t.Errorf("RenderCSV() = %q, want %q", got, want)
	}
}
