package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/laeextract/internal/model"
)

func assertValue[T any](t *testing.T, want T, d model.Decoded[T]) {
	t.Helper()
	got, ok := d.Get()
	require.True(t, ok, "expected a value, got err=%q null=%v", d.Err(), d.IsNull())
	assert.Equal(t, want, got)
}

func TestECGSync(t *testing.T) {
	assertValue(t, true, ECGSync("Ja", true))
	assertValue(t, false, ECGSync("Nein", true))
	assertValue(t, false, ECGSync("-", true))
	assertValue(t, false, ECGSync("", true))
	assert.Equal(t, model.InvalidValue, ECGSync("ja", true).Err())
	assert.Equal(t, model.MissingField, ECGSync("", false).Err())
}

func TestDensity(t *testing.T) {
	assertValue(t, 121, Density("120,5 HU", true))
	assertValue(t, 120, Density("120 HU", true))
	assertValue(t, 120, Density("120,49 HU", true))
	assertValue(t, 0, Density("0 HU", true))
	assert.True(t, Density("-", true).IsNull())
	assert.True(t, Density("", true).IsNull())

	for _, raw := range []string{"120", "120.5 HU", "120,5HU", "ca. 120 HU", "-12 HU", "120 HU (Standard)", "99999999999999999999 HU"} {
		assert.Equal(t, model.InvalidValue, Density(raw, true).Err(), raw)
	}
	assert.Equal(t, model.MissingField, Density("", false).Err())
}

func TestArtefactScore(t *testing.T) {
	assertValue(t, 0, ArtefactScore("0 (keine Artefakte)", true))
	assertValue(t, 3, ArtefactScore("3", true))
	assertValue(t, 5, ArtefactScore("5 (nicht beurteilbar)", true))
	assert.True(t, ArtefactScore("-", true).IsNull())
	assert.Equal(t, model.InvalidValue, ArtefactScore("0", true).Err())
	assert.Equal(t, model.InvalidValue, ArtefactScore("6", true).Err())
	assert.Equal(t, model.MissingField, ArtefactScore("", false).Err())
}

func TestLaePresence(t *testing.T) {
	assertValue(t, model.LaeYes, LaePresenceOf("Ja", true))
	assertValue(t, model.LaeNo, LaePresenceOf("Nein", true))
	assertValue(t, model.LaeSuspected, LaePresenceOf("Verdacht auf Lungenarterienembolie", true))
	assertValue(t, model.LaeNotAssessable, LaePresenceOf("Nicht beurteilbar", true))

	// no neutral input for this field
	assert.Equal(t, model.InvalidValue, LaePresenceOf("", true).Err())
	assert.Equal(t, model.InvalidValue, LaePresenceOf("-", true).Err())
	assert.Equal(t, model.InvalidValue, LaePresenceOf("Verdacht auf", true).Err())
	assert.Equal(t, model.MissingField, LaePresenceOf("", false).Err())
}

func TestReportedClotBurden(t *testing.T) {
	assertValue(t, 40.0, ReportedClotBurden("40", true))
	assertValue(t, 0.0, ReportedClotBurden("0", true))
	assertValue(t, 12.5, ReportedClotBurden("12,5", true))
	assertValue(t, 40.0, ReportedClotBurden("40,0", true))

	for _, raw := range []string{"41", "40,5", "", "-", "12.5", "abc", "-1"} {
		assert.Equal(t, model.InvalidValue, ReportedClotBurden(raw, true).Err(), raw)
	}
	assert.Equal(t, model.MissingField, ReportedClotBurden("", false).Err())
}

func TestPerfusionDeficit(t *testing.T) {
	assertValue(t, model.PerfusionNone, PerfusionDeficitOf("Keine", true))
	assertValue(t, model.PerfusionLT25, PerfusionDeficitOf("<25%", true))
	assertValue(t, model.PerfusionGE25, PerfusionDeficitOf("≥25%", true))
	assertValue(t, model.PerfusionGE25, PerfusionDeficitOf("=25%", true))
	assert.True(t, PerfusionDeficitOf("-", true).IsNull())
	assert.True(t, PerfusionDeficitOf("", true).IsNull())
	assert.Equal(t, model.InvalidValue, PerfusionDeficitOf(">25%", true).Err())
	assert.Equal(t, model.MissingField, PerfusionDeficitOf("", false).Err())
}

func TestRVLVQuotient(t *testing.T) {
	assertValue(t, model.QuotientLT1, RVLVQuotient("<1", true))
	assertValue(t, model.QuotientGE1, RVLVQuotient("≥1", true))
	assertValue(t, model.QuotientGE1, RVLVQuotient("=1", true))
	assert.True(t, RVLVQuotient("-", true).IsNull())
	assert.Equal(t, model.InvalidValue, RVLVQuotient("1,2", true).Err())
	assert.Equal(t, model.MissingField, RVLVQuotient("", false).Err())
}

func TestMainBranch(t *testing.T) {
	assertValue(t, model.MainBranchTotal, MainBranch("Total okkludiert", true))
	assertValue(t, model.MainBranchPartial, MainBranch("Partiell okkludiert", true))
	assertValue(t, model.MainBranchNone, MainBranch("-", true))
	assertValue(t, model.MainBranchNone, MainBranch("", true))
	assert.Equal(t, model.InvalidValue, MainBranch("Segmentarterie(n)", true).Err())
	assert.Equal(t, model.MissingField, MainBranch("", false).Err())
}

func TestLobe(t *testing.T) {
	assertValue(t, model.LobeTotal, Lobe("Lappenarterie total okkludiert", true))
	assertValue(t, model.LobePartial, Lobe("Lappenarterie partiell okkludiert", true))
	assertValue(t, model.LobeSegmental, Lobe("Segmentarterie(n)", true))
	assertValue(t, model.LobeSubsegmental, Lobe("Subsegmentarterie(n)", true))
	assertValue(t, model.LobeNone, Lobe("-", true))
	assert.Equal(t, model.InvalidValue, Lobe("Total okkludiert", true).Err())
	assert.Equal(t, model.MissingField, Lobe("", false).Err())
}
