package models

import (
	"testing"
	"time"

	apperrors "trade-journal/internal/errors"
)

func TestTradeLifecycle(t *testing.T) {
	tr := NewTrade("AAPL", 1)
	if tr.Status != StatusPlanned {
		t.Fatalf("new trade status = %s, want %s", tr.Status, StatusPlanned)
	}

	entry := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	if err := tr.Enter(entry, 100, 10); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if tr.Status != StatusOpen {
		t.Fatalf("status = %s, want %s", tr.Status, StatusOpen)
	}
	if tr.EntryPrice == nil || *tr.EntryPrice != 100 || tr.Quantity != 10 {
		t.Fatalf("fill not recorded: price=%v qty=%d", tr.EntryPrice, tr.Quantity)
	}

	exit := entry.Add(48 * time.Hour)
	if err := tr.Exit(exit, 110); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if tr.Status != StatusClosed {
		t.Fatalf("status = %s, want %s", tr.Status, StatusClosed)
	}
	if tr.ProfitLoss == nil || *tr.ProfitLoss != 100 {
		t.Errorf("ProfitLoss = %v, want 100", tr.ProfitLoss)
	}
	if tr.PercentReturn == nil || *tr.PercentReturn != 10 {
		t.Errorf("PercentReturn = %v, want 10", tr.PercentReturn)
	}
}

func TestTradeExitBeforeEnter(t *testing.T) {
	tr := NewTrade("AAPL", 1)
	err := tr.Exit(time.Now().UTC(), 110)
	if !apperrors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("exit of planned trade: err = %v, want ErrInvalidState", err)
	}
	if tr.Status != StatusPlanned {
		t.Errorf("status mutated to %s on failed exit", tr.Status)
	}
}

func TestTradeDoubleEnter(t *testing.T) {
	tr := NewTrade("AAPL", 1)
	if err := tr.Enter(time.Now().UTC(), 100, 10); err != nil {
		t.Fatalf("enter: %v", err)
	}
	err := tr.Enter(time.Now().UTC(), 101, 10)
	if !apperrors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("second enter: err = %v, want ErrInvalidState", err)
	}
}

func TestTradeCancel(t *testing.T) {
	tr := NewTrade("AAPL", 1)
	note := "setup invalidated"
	tr.Notes = &note

	if err := tr.Cancel("gap against the setup"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if tr.Status != StatusCancelled {
		t.Fatalf("status = %s, want %s", tr.Status, StatusCancelled)
	}
	if tr.Notes == nil || *tr.Notes != "gap against the setup" {
		t.Errorf("Notes = %v, want the cancel reason", tr.Notes)
	}
}

func TestTradeCancelOpen(t *testing.T) {
	tr := NewTrade("AAPL", 1)
	if err := tr.Enter(time.Now().UTC(), 100, 10); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if err := tr.Cancel("risk off"); err != nil {
		t.Fatalf("cancel open trade: %v", err)
	}
}

func TestTradeCancelTerminal(t *testing.T) {
	tr := NewTrade("AAPL", 1)
	if err := tr.Enter(time.Now().UTC(), 100, 10); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if err := tr.Exit(time.Now().UTC(), 110); err != nil {
		t.Fatalf("exit: %v", err)
	}

	err := tr.Cancel("too late")
	if !apperrors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("cancel closed trade: err = %v, want ErrInvalidState", err)
	}

	tr2 := NewTrade("AAPL", 1)
	if err := tr2.Cancel("first"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	err = tr2.Cancel("second")
	if !apperrors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("cancel cancelled trade: err = %v, want ErrInvalidState", err)
	}
}
