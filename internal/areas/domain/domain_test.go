package domain

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "foo", NormalizeName(" Foo "))
	assert.Equal(t, NormalizeName("foo"), NormalizeName("\tFOO\n"))
	assert.Equal(t, "سمنود", NormalizeName("  سمنود "))
	assert.NotEqual(t, NormalizeName("منيا"), NormalizeName("منيا سمنود"))
}

func TestAreaSeedValidate(t *testing.T) {
	require.NoError(t, AreaSeed{Name: "A", DeliveryFee: 0}.Validate())
	require.NoError(t, AreaSeed{Name: "A", DeliveryFee: 20, EstimatedTime: 45}.Validate())

	require.Error(t, AreaSeed{Name: "  ", DeliveryFee: 20}.Validate())
	require.Error(t, AreaSeed{Name: "A", DeliveryFee: -1}.Validate())
	require.Error(t, AreaSeed{Name: "A", DeliveryFee: 1, EstimatedTime: -5}.Validate())
}

func TestAreaSeedWithDefaults(t *testing.T) {
	assert.Equal(t, 30, AreaSeed{Name: "A"}.WithDefaults(30).EstimatedTime)
	assert.Equal(t, 45, AreaSeed{Name: "A", EstimatedTime: 45}.WithDefaults(30).EstimatedTime)
}

func TestCreateSummaryAdd(t *testing.T) {
	a := AreaSeed{Name: "A"}
	b := AreaSeed{Name: "B"}
	c := AreaSeed{Name: "C"}
	d := AreaSeed{Name: "D"}

	var summary CreateSummary
	summary.Add(Created(a, "1"))
	summary.Add(Failed(b, errors.New("boom")))
	summary.Add(AlreadyExists(c, "Area already exists"))
	summary.Add(Created(d, ""))

	require.Len(t, summary.Success, 2)
	assert.Equal(t, "A", summary.Success[0].Seed.Name)
	assert.Equal(t, "D", summary.Success[1].Seed.Name)
	require.Len(t, summary.Failed, 1)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, 4, summary.Total())

	err := summary.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "B: boom")
}

func TestCreateSummaryErrNilWithoutFailures(t *testing.T) {
	var summary CreateSummary
	summary.Add(Created(AreaSeed{Name: "A"}, "1"))
	assert.NoError(t, summary.Err())
}

func TestVerifyReport(t *testing.T) {
	report := &VerifyReport{
		Found: []FoundArea{
			{Seed: AreaSeed{Name: "A", DeliveryFee: 20}, Remote: RemoteArea{Name: "A", DeliveryFee: 20}},
			{Seed: AreaSeed{Name: "B", DeliveryFee: 20}, Remote: RemoteArea{Name: "B", DeliveryFee: 25}},
		},
	}
	assert.True(t, report.AllFound())
	assert.False(t, report.Found[0].FeeMismatch())
	assert.True(t, report.Found[1].FeeMismatch())
	assert.Equal(t, 1, report.Mismatched())

	report.Missing = append(report.Missing, AreaSeed{Name: "X"})
	assert.False(t, report.AllFound())
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "created", OutcomeCreated.String())
	assert.Equal(t, "already_exists", OutcomeAlreadyExists.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", OutcomeKind(0).String())
}

func TestClassifyBody(t *testing.T) {
	assert.Equal(t, BodyEmpty, ClassifyBody(nil))
	assert.Equal(t, BodyEmpty, ClassifyBody([]byte(" \n")))
	assert.Equal(t, BodyJSON, ClassifyBody([]byte(`{"data":{"deliveryAreas":[]}}`)))
	assert.Equal(t, BodyJSON, ClassifyBody([]byte(" [1, 2]\n")))
	assert.Equal(t, BodyHTML, ClassifyBody([]byte("<!DOCTYPE html><html>ngrok</html>")))
	assert.Equal(t, BodyText, ClassifyBody([]byte("Bad Gateway")))
	assert.Equal(t, BodyText, ClassifyBody([]byte(`{"broken":`)))
}

func TestAuthModes(t *testing.T) {
	sendsToken := lo.Map(AuthModes(), func(m AuthMode, _ int) bool { return m.SendsToken() })
	sendsKey := lo.Map(AuthModes(), func(m AuthMode, _ int) bool { return m.SendsKey() })

	assert.Equal(t, []bool{false, true, false, true}, sendsToken)
	assert.Equal(t, []bool{false, false, true, true}, sendsKey)
	assert.Equal(t, "unknown", AuthMode(0).String())
}
