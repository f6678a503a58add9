package ppc

import (
	"testing"
)

func TestMSRTranslationBits(t *testing.T) {
	var m MSR

	m.SetDR(true)
	if !m.DR() || m.IR() {
		t.Errorf("after SetDR: DR=%v IR=%v", m.DR(), m.IR())
	}
	if m.Get() != 1<<4 {
		t.Errorf("MSR word = 0x%08x, want DR bit only", m.Get())
	}

	m.SetIR(true)
	m.SetDR(false)
	if m.DR() || !m.IR() {
		t.Errorf("after toggling: DR=%v IR=%v", m.DR(), m.IR())
	}
}

func TestSegmentRegisterFields(t *testing.T) {
	tests := []struct {
		name string
		sr   SegmentRegister
		T    bool
		N    bool
		vsid uint32
	}{
		{"plain", 0x00000123, false, false, 0x123},
		{"direct store", 0x80000123, true, false, 0x123},
		{"no execute", 0x10000456, false, true, 0x456},
		{"vsid masked", 0x0FFFFFFF, false, false, 0xFFFFFF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.sr.T() != tt.T || tt.sr.N() != tt.N || tt.sr.VSID() != tt.vsid {
				t.Errorf("T=%v N=%v VSID=0x%x, want T=%v N=%v VSID=0x%x",
					tt.sr.T(), tt.sr.N(), tt.sr.VSID(), tt.T, tt.N, tt.vsid)
			}
		})
	}
}
