package builder_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/meenmo/curvekit/builder"
)

const instrumentTable = `Name,Type,Curve,Forecast Curve Left,Forecast Curve Right,Discount Curve Left,Discount Curve Right,Convention Left,Convention Right,Start,Length,Enabled
USD.LIBOR.3M/Deposit/3M,Deposit,USD.LIBOR.3M,USD.LIBOR.3M,na,na,na,USD.3M,na,E,3M,Y
USD.LIBOR.3M/Swap/2Y,Swap,USD.LIBOR.3M,USD.LIBOR.3M,na,USD/USD.OIS,na,USD.1Y,USD.3M,E,2Y,Y
USD.LIBOR.3M/Swap/3Y,Swap,USD.LIBOR.3M,USD.LIBOR.3M,na,USD/USD.OIS,na,USD.1Y,USD.3M,E,3Y,N
`

const curveTable = `Curve,Interpolation,Solve Stage
USD.LIBOR.3M,LINEAR_LOGDF,0
USD/USD.OIS,LINEAR_LOGDF,1
`

func TestLoadInstrumentRows(t *testing.T) {
	t.Parallel()

	rows, err := builder.LoadInstrumentRows(strings.NewReader(instrumentTable))
	if err != nil {
		t.Fatalf("LoadInstrumentRows error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count %d, want 3", len(rows))
	}
	if rows[0].Type != "Deposit" || rows[0].ForecastCurveL != "USD.LIBOR.3M" || rows[0].DiscountCurveL != "na" {
		t.Fatalf("row mismatch: %+v", rows[0])
	}
	if rows[1].ConventionR != "USD.3M" || rows[1].Length != "2Y" {
		t.Fatalf("row mismatch: %+v", rows[1])
	}
	if rows[2].Enabled != "N" {
		t.Fatalf("row mismatch: %+v", rows[2])
	}
}

func TestLoadCurveRows(t *testing.T) {
	t.Parallel()

	rows, err := builder.LoadCurveRows(strings.NewReader(curveTable))
	if err != nil {
		t.Fatalf("LoadCurveRows error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count %d, want 2", len(rows))
	}
	if rows[0].Curve != "USD.LIBOR.3M" || rows[0].SolveStage != 0 {
		t.Fatalf("row mismatch: %+v", rows[0])
	}
	if rows[1].SolveStage != 1 {
		t.Fatalf("row mismatch: %+v", rows[1])
	}
}

func TestLoadTableErrors(t *testing.T) {
	t.Parallel()

	if _, err := builder.LoadInstrumentRows(strings.NewReader("Name,Type\nX,Deposit\n")); !errors.Is(err, builder.ErrInput) {
		t.Fatalf("expected input error for missing columns, got %v", err)
	}
	if _, err := builder.LoadCurveRows(strings.NewReader("Curve,Interpolation,Solve Stage\nX,LINEAR_LOGDF,soon\n")); !errors.Is(err, builder.ErrInput) {
		t.Fatalf("expected input error for bad stage, got %v", err)
	}
}
