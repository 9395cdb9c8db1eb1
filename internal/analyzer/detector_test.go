package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/constants"
)

func allDetectors(t *testing.T, opts Options) []Detector {
	t.Helper()
	ds, err := Detectors(domain.AllDetectorKinds(), opts)
	require.NoError(t, err)
	return ds
}

func TestNewDetector(t *testing.T) {
	for _, k := range domain.AllDetectorKinds() {
		d, err := NewDetector(k, DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, k, d.Kind())
	}
	_, err := NewDetector("semantic", DefaultOptions())
	assert.Error(t, err)
}

func TestDetectors_Identity(t *testing.T) {
	a := buildUnit(t, "a.py", inventorySource)
	b := buildUnit(t, "b.py", inventorySource)

	for _, d := range allDetectors(t, DefaultOptions()) {
		res := d.Evaluate(a, b, 0.5)
		assert.True(t, res.Available, d.Kind())
		assert.Equal(t, 1.0, res.Score, d.Kind())
		assert.True(t, res.Vote, d.Kind())
	}
}

func TestDetectors_SymmetryAndDeterminism(t *testing.T) {
	a := buildUnit(t, "a.py", inventorySource)
	b := buildUnit(t, "b.py", inventorySource[:len(inventorySource)/2]+unrelatedSource)

	opts := DefaultOptions()
	for _, metric := range []string{constants.ASTMetricSubtree, constants.ASTMetricEdit} {
		opts.ASTMetric = metric
		for _, d := range allDetectors(t, opts) {
			ab := d.Evaluate(a, b, 0.5)
			ba := d.Evaluate(b, a, 0.5)
			again := d.Evaluate(a, b, 0.5)
			assert.Equal(t, ab.Score, ba.Score, "%s/%s", d.Kind(), metric)
			assert.Equal(t, ab.Score, again.Score)
			assert.GreaterOrEqual(t, ab.Score, 0.0)
			assert.LessOrEqual(t, ab.Score, 1.0)
		}
	}
}

func TestDetectors_RenamingInvariance(t *testing.T) {
	orig := buildUnit(t, "orig.py", inventorySource)
	renamed := buildUnit(t, "renamed.py", inventoryRenamed)

	token := (&TokenDetector{}).Evaluate(orig, renamed, constants.DefaultTokenThreshold)
	ast := NewASTDetector(constants.ASTMetricSubtree).Evaluate(orig, renamed, constants.DefaultASTThreshold)
	hash := (&HashDetector{}).Evaluate(orig, renamed, constants.DefaultHashThreshold)

	assert.Equal(t, 1.0, ast.Score, "structure is unchanged by renaming")
	assert.True(t, ast.Vote)
	assert.Less(t, token.Score, constants.DefaultTokenThreshold)
	assert.False(t, token.Vote)
	assert.Less(t, hash.Score, constants.DefaultHashThreshold)

	edit := NewASTDetector(constants.ASTMetricEdit).Evaluate(orig, renamed, constants.DefaultASTThreshold)
	assert.Equal(t, 1.0, edit.Score)
}

func TestHashDetector_MonotonicContainment(t *testing.T) {
	lines := strings.SplitAfter(inventorySource, "\n")
	host := buildUnit(t, "host.py", inventorySource)

	prev := -1.0
	for _, frac := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		n := int(frac * float64(len(lines)))
		copied := strings.Join(lines[:n], "")
		other := buildUnit(t, "other.py", unrelatedSource+"\n\n"+copied)

		res := (&HashDetector{}).Evaluate(host, other, constants.DefaultHashThreshold)
		require.True(t, res.Available)
		assert.GreaterOrEqual(t, res.Score, prev, "fraction %.2f", frac)
		prev = res.Score
	}
	assert.Greater(t, prev, constants.DefaultHashThreshold)
}

func TestHashDetector_PartialCopyEvidence(t *testing.T) {
	host := buildUnit(t, "host.py", unrelatedSource+"\n\n"+inventorySource)
	snippet := buildUnit(t, "snippet.py", inventorySource)

	res := (&HashDetector{}).Evaluate(snippet, host, constants.DefaultHashThreshold)
	assert.Greater(t, res.Score, 0.9, "embedded copy is contained in the larger file")
	require.NotEmpty(t, res.Evidence)
	hostOffset := strings.Count(unrelatedSource, "\n") + 2
	found := false
	for _, ev := range res.Evidence {
		assert.Greater(t, ev.Fingerprints, 0)
		if ev.LinesB.Start > hostOffset && ev.LinesB.End-ev.LinesB.Start > 10 {
			found = true
		}
	}
	assert.True(t, found, "copied block is located in the second half of the host")

	// token Jaccard is diluted by the unrelated half
	tok := (&TokenDetector{}).Evaluate(snippet, host, constants.DefaultTokenThreshold)
	assert.Less(t, tok.Score, res.Score)
}

func TestDetectors_SyntaxErrorDegradesOnlyAST(t *testing.T) {
	good := buildUnit(t, "good.py", inventorySource)
	broken := buildUnit(t, "broken.py", inventorySource+"\ndef broken(:\n    pass\n")

	require.NoError(t, broken.TokenErr)
	require.Error(t, broken.TreeErr)

	ast := NewASTDetector("").Evaluate(good, broken, constants.DefaultASTThreshold)
	assert.False(t, ast.Available)
	assert.False(t, ast.Vote)
	require.NotNil(t, ast.Error)
	assert.Equal(t, domain.ErrCodeASTParse, ast.Error.Code)

	tok := (&TokenDetector{}).Evaluate(good, broken, constants.DefaultTokenThreshold)
	hash := (&HashDetector{}).Evaluate(good, broken, constants.DefaultHashThreshold)
	assert.True(t, tok.Available)
	assert.True(t, hash.Available)
	assert.Greater(t, hash.Score, 0.9)
}

func TestDetectors_UnparseableDegradesAll(t *testing.T) {
	good := buildUnit(t, "good.py", inventorySource)
	bad := buildUnit(t, "bad.py", "x = '\xff\xfe'\n")

	require.Error(t, bad.TokenErr)
	for _, d := range allDetectors(t, DefaultOptions()) {
		res := d.Evaluate(good, bad, 0.5)
		assert.False(t, res.Available, d.Kind())
		require.NotNil(t, res.Error)
		assert.Equal(t, domain.ErrCodeUnparseableSource, res.Error.Code)
	}
}

func TestDetectors_EmptyFiles(t *testing.T) {
	e1 := buildUnit(t, "e1.py", "")
	e2 := buildUnit(t, "e2.py", "# only a comment\n")
	full := buildUnit(t, "full.py", inventorySource)

	tok := &TokenDetector{}
	hash := &HashDetector{}
	assert.Equal(t, 1.0, tok.Evaluate(e1, e2, 0.7).Score)
	assert.Equal(t, 1.0, hash.Evaluate(e1, e2, 0.6).Score)
	assert.Equal(t, 0.0, tok.Evaluate(e1, full, 0.7).Score)
	assert.Equal(t, 0.0, hash.Evaluate(e1, full, 0.6).Score)
}

func TestSourceUnit_Status(t *testing.T) {
	u := buildUnit(t, "a.py", inventorySource)
	st := u.Status()

	assert.Equal(t, "a.py", st.ID)
	assert.Len(t, st.ContentHash, 64)
	assert.Greater(t, st.Tokens, 0)
	assert.Greater(t, st.Nodes, 0)
	assert.Greater(t, st.Fingerprints, 0)
	assert.False(t, st.Degraded())

	broken := buildUnit(t, "b.py", "def broken(:\n    pass\n").Status()
	require.Len(t, broken.Errors, 1)
	assert.Equal(t, domain.ErrCodeASTParse, broken.Errors[0].Code)

	assert.Equal(t, u.ContentHash, ContentHash([]byte(inventorySource)))
	assert.Equal(t, "copy.py", u.WithID("copy.py").ID)
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	bad := DefaultOptions()
	bad.NGram = 0
	assert.Error(t, bad.Validate())

	bad = DefaultOptions()
	bad.ASTMetric = "cosine"
	assert.Error(t, bad.Validate())
}
