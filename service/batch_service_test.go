package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/analyzer"
	"github.com/ludo-technologies/codeguard/internal/config"
	"github.com/ludo-technologies/codeguard/internal/constants"
)

func runBatch(t *testing.T, s *BatchServiceImpl, req domain.BatchRequest) *domain.BatchResult {
	t.Helper()
	result, err := s.Run(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func pairOf(t *testing.T, result *domain.BatchResult, a, b string) domain.PairRecord {
	t.Helper()
	for _, p := range result.Pairs {
		if p.FileA == a && p.FileB == b {
			return p
		}
	}
	t.Fatalf("pair %s <-> %s not found", a, b)
	return domain.PairRecord{}
}

func TestBatchService_IdenticalFiles(t *testing.T) {
	result := runBatch(t, NewBatchService(), domain.BatchRequest{
		Files: filesOf("alice.py", gradebookSource, "bob.py", gradebookSource),
	})

	require.Len(t, result.Pairs, 1)
	p := result.Pairs[0]
	assert.Equal(t, "alice.py", p.FileA)
	assert.Equal(t, "bob.py", p.FileB)
	for _, kind := range domain.AllDetectorKinds() {
		require.NotNil(t, p.Score(kind), kind)
		assert.Equal(t, 1.0, *p.Score(kind), kind)
	}
	assert.Equal(t, domain.VerdictPlagiarized, p.Verdict)
	assert.Equal(t, domain.ConfidenceHigh, p.ConfidenceLevel)
	assert.Equal(t, constants.PresetStandard, p.PresetName)
	assert.False(t, result.Cancelled)

	require.Len(t, result.Clusters, 1)
	assert.Equal(t, []string{"alice.py", "bob.py"}, result.Clusters[0].Members)
}

func TestBatchService_TrivialExerciseUnderSimplePreset(t *testing.T) {
	files := filesOf("one.py", helloOneLiner, "two.py", helloStructured)

	simple := runBatch(t, NewBatchService(), domain.BatchRequest{Files: files, PresetName: constants.PresetSimple})
	require.Len(t, simple.Pairs, 1)
	p := simple.Pairs[0]
	assert.Equal(t, domain.VerdictClean, p.Verdict)
	assert.Nil(t, p.HashScore, "hash is disabled in the simple preset")
	assert.NotNil(t, p.TokenScore)
	assert.NotNil(t, p.ASTScore)
	assert.Equal(t, constants.PresetSimple, p.PresetName)

	standard := runBatch(t, NewBatchService(), domain.BatchRequest{Files: files})
	require.Len(t, standard.Pairs, 1)
	assert.NotNil(t, standard.Pairs[0].HashScore)
	assert.Equal(t, constants.PresetStandard, standard.Pairs[0].PresetName)
}

func TestBatchService_RenamedCopy(t *testing.T) {
	result := runBatch(t, NewBatchService(), domain.BatchRequest{
		Files: filesOf("orig.py", gradebookSource, "renamed.py", gradebookRenamed),
	})

	p := pairOf(t, result, "orig.py", "renamed.py")
	require.NotNil(t, p.TokenScore)
	require.NotNil(t, p.ASTScore)
	assert.Less(t, *p.TokenScore, constants.DefaultTokenThreshold)
	assert.GreaterOrEqual(t, *p.ASTScore, constants.DefaultASTThreshold)
	assert.Contains(t, []domain.ConfidenceLevel{domain.ConfidenceLow, domain.ConfidenceMedium}, p.ConfidenceLevel)
	assert.Less(t, p.Agreement, 1.0)
}

func TestBatchService_SyntaxErrorDegradesAST(t *testing.T) {
	result := runBatch(t, NewBatchService(), domain.BatchRequest{
		Files: filesOf("broken.py", brokenSource, "good.py", gradebookSource, "queue.py", queueSource),
	})

	require.Len(t, result.Pairs, 3)
	for _, p := range result.Pairs {
		if p.FileA != "broken.py" {
			assert.NotNil(t, p.ASTScore)
			assert.Empty(t, p.Degraded)
			continue
		}
		assert.Nil(t, p.ASTScore, p.String())
		assert.NotNil(t, p.TokenScore)
		assert.NotNil(t, p.HashScore)
		assert.Equal(t, []domain.DetectorKind{domain.DetectorAST}, p.Degraded)
		require.NotEmpty(t, p.Errors)
		assert.Equal(t, domain.ErrCodeASTParse, p.Errors[0].Code)
	}

	copied := pairOf(t, result, "broken.py", "good.py")
	assert.Greater(t, *copied.HashScore, 0.9)

	assert.Equal(t, 1, result.Summary.DegradedFiles)
	require.Len(t, result.Units, 3)
	assert.True(t, result.Units[0].Degraded())
	assert.Equal(t, "broken.py", result.Units[0].ID)
}

func TestBatchService_DetectorPanicIsIsolated(t *testing.T) {
	s := NewBatchService()
	s.evaluate = func(d analyzer.Detector, a, b *analyzer.SourceUnit, threshold float64) domain.DetectorResult {
		if d.Kind() == domain.DetectorHash && b.ID == "c.py" {
			panic("fingerprint table corrupted")
		}
		return d.Evaluate(a, b, threshold)
	}

	result := runBatch(t, s, domain.BatchRequest{
		Files: filesOf("a.py", gradebookSource, "b.py", queueSource, "c.py", primesSource),
	})
	require.Len(t, result.Pairs, 3)

	for _, p := range result.Pairs {
		assert.NotNil(t, p.TokenScore)
		assert.NotNil(t, p.ASTScore)
		if p.FileB != "c.py" {
			assert.NotNil(t, p.HashScore)
			continue
		}
		assert.Nil(t, p.HashScore)
		require.Len(t, p.Errors, 1)
		assert.Equal(t, domain.ErrCodeDetectorInternal, p.Errors[0].Code)
		assert.Equal(t, domain.ConfidenceLow, p.ConfidenceLevel)
	}
}

func TestBatchService_CancelStopsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewBatchService()
	result, err := s.Run(ctx, domain.BatchRequest{
		Files:   filesOf("a.py", gradebookSource, "b.py", queueSource, "c.py", primesSource, "d.py", helloStructured),
		Workers: 1,
		Progress: func(done, total int) {
			if done == 1 {
				cancel()
			}
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Cancelled)
	assert.Len(t, result.Pairs, 1)
	assert.Equal(t, 6, result.Summary.TotalPairs)
	assert.Equal(t, 1, result.Summary.ComparedPairs)
}

func TestBatchService_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBatchService().Run(ctx, domain.BatchRequest{
		Files: filesOf("a.py", gradebookSource, "b.py", queueSource),
	})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeCancelled))
}

func TestBatchService_ProgressStrictlyIncreases(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	totals := make(map[int]bool)

	result := runBatch(t, NewBatchService(), domain.BatchRequest{
		Files: filesOf(
			"a.py", gradebookSource,
			"b.py", gradebookRenamed,
			"c.py", queueSource,
			"d.py", primesSource,
			"e.py", helloStructured,
		),
		Workers: 4,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, done)
			totals[total] = true
		},
	})

	require.Len(t, result.Pairs, 10)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, seen)
	assert.Equal(t, map[int]bool{10: true}, totals)
}

func TestBatchService_Deterministic(t *testing.T) {
	req := domain.BatchRequest{
		Files: filesOf(
			"a.py", gradebookSource,
			"b.py", gradebookRenamed,
			"c.py", queueSource,
			"d.py", brokenSource,
		),
		Workers: 3,
	}

	first := runBatch(t, NewBatchService(), req)
	second := runBatch(t, NewBatchService(), req)
	assert.Equal(t, first.Pairs, second.Pairs)
	assert.Equal(t, first.Units, second.Units)
	assert.Equal(t, first.Clusters, second.Clusters)
}

func TestBatchService_FatalErrors(t *testing.T) {
	negative := -1.0
	two := filesOf("a.py", queueSource, "b.py", primesSource)

	tests := []struct {
		name string
		req  domain.BatchRequest
		code string
	}{
		{
			name: "unknown preset",
			req:  domain.BatchRequest{Files: two, PresetName: "strictest"},
			code: domain.ErrCodeInvalidPresetName,
		},
		{
			name: "negative weight override",
			req: domain.BatchRequest{Files: two, Overrides: domain.PresetOverrides{
				Weights: map[domain.DetectorKind]float64{domain.DetectorToken: negative},
			}},
			code: domain.ErrCodeInvalidWeight,
		},
		{
			name: "threshold out of range",
			req: domain.BatchRequest{Files: two, Overrides: domain.PresetOverrides{
				Thresholds: map[domain.DetectorKind]float64{domain.DetectorAST: 1.5},
			}},
			code: domain.ErrCodeInvalidWeight,
		},
		{
			name: "single file",
			req:  domain.BatchRequest{Files: filesOf("a.py", queueSource)},
			code: domain.ErrCodeInvalidInput,
		},
		{
			name: "negative workers",
			req:  domain.BatchRequest{Files: two, Workers: -2},
			code: domain.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			tt.req.Progress = func(int, int) { calls++ }

			result, err := NewBatchService().Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, domain.IsCode(err, tt.code), "got %v", err)
			assert.Zero(t, calls, "no pair is processed")
		})
	}
}

func TestBatchService_CustomPresetAndDefault(t *testing.T) {
	token := 0.5
	cfg := config.DefaultConfig()
	cfg.Presets["lenient"] = config.PresetConfig{
		Description: "looser token threshold",
		Token:       &config.DetectorOverrideConfig{Threshold: &token},
	}
	registry, err := config.NewPresetRegistryFromConfig(cfg)
	require.NoError(t, err)

	s := NewBatchService(WithPresetRegistry(registry), WithDefaultPreset("lenient"))
	result := runBatch(t, s, domain.BatchRequest{Files: filesOf("a.py", queueSource, "b.py", primesSource)})

	assert.Equal(t, "lenient", result.Preset.Name)
	assert.Equal(t, 0.5, result.Preset.Setting(domain.DetectorToken).Threshold)
	assert.Equal(t, "lenient", result.Pairs[0].PresetName)
}

func TestBatchService_DuplicateContent(t *testing.T) {
	result := runBatch(t, NewBatchService(), domain.BatchRequest{
		Files: filesOf("a.py", queueSource, "b.py", queueSource, "c.py", primesSource),
	})

	assert.Equal(t, result.Units[0].ContentHash, result.Units[1].ContentHash)
	p := pairOf(t, result, "a.py", "b.py")
	assert.Equal(t, 1.0, p.WeightedScore)
	assert.Equal(t, domain.VerdictPlagiarized, p.Verdict)
}
