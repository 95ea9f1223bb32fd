package conventions_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/meenmo/curvekit/conventions"
	"github.com/meenmo/curvekit/dates"
)

const conventionTable = "Index\tReset Frequency\tCalculation Period Frequency\tPayment Frequency\tDay Count Convention\n" +
	"USD.LIBOR.3M\t3M\t3M\t3M\tACT360\n" +
	"USD.OIS\t1D\t3M\t3M\tACT365\n"

func TestLoad(t *testing.T) {
	t.Parallel()

	reg, err := conventions.Load(strings.NewReader(conventionTable))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	conv, err := reg.Get("USD.LIBOR.3M")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !conv.PaymentFrequency.Equal(dates.MustTenor("3M")) {
		t.Fatalf("payment frequency mismatch: %s", conv.PaymentFrequency)
	}
	if conv.DCC != dates.Act360 {
		t.Fatalf("day count mismatch: %s", conv.DCC)
	}

	ois, err := reg.Get("USD.OIS")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !ois.ResetFrequency.Equal(dates.MustTenor("1D")) || ois.DCC != dates.Act365 {
		t.Fatalf("OIS convention mismatch: %+v", ois)
	}

	if _, err := reg.Get("GBP.LIBOR.3M"); !errors.Is(err, conventions.ErrLookup) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	t.Parallel()

	table := "Index\tReset Frequency\n" + "USD.LIBOR.3M\t3M\n"
	if _, err := conventions.Load(strings.NewReader(table)); err == nil {
		t.Fatalf("expected error for missing columns")
	}
}

func TestLoadBadTenor(t *testing.T) {
	t.Parallel()

	table := "Index\tReset Frequency\tCalculation Period Frequency\tPayment Frequency\tDay Count Convention\n" +
		"USD.LIBOR.3M\tbogus\t3M\t3M\tACT360\n"
	if _, err := conventions.Load(strings.NewReader(table)); !errors.Is(err, dates.ErrInput) {
		t.Fatalf("expected input error, got %v", err)
	}
}
