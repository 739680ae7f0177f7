package main

import (
	"slices"
	"strconv"
)

type mode string

const (
	modeAverage mode = "average"
	modePrompt  mode = "prompt"
)

// modeFlag is a boolean flag that also records where it appeared on the
// command line, so "-a -p" and "-p -a" run in the order given.
type modeFlag struct {
	mode  mode
	on    *bool
	order *[]mode
}

func newModeFlag(m mode, on *bool, order *[]mode) *modeFlag {
	return &modeFlag{mode: m, on: on, order: order}
}

func (f *modeFlag) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*f.on = on

	// first occurrence wins; an explicit =false drops the mode again
	seen := slices.Contains(*f.order, f.mode)
	switch {
	case on && !seen:
		*f.order = append(*f.order, f.mode)
	case !on && seen:
		*f.order = slices.DeleteFunc(*f.order, func(m mode) bool { return m == f.mode })
	}
	return nil
}

func (f *modeFlag) String() string {
	if f == nil || f.on == nil {
		return "false"
	}
	return strconv.FormatBool(*f.on)
}

func (f *modeFlag) Type() string { return "bool" }

func (f *modeFlag) IsBoolFlag() bool { return true }
