package analyzer

import (
	"context"
	"encoding/hex"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/zeebo/blake3"

	"github.com/ludo-technologies/codeguard/domain"
	"github.com/ludo-technologies/codeguard/internal/parser"
)

// SourceUnit holds every representation the detectors need for one file.
// It is built once and never mutated afterwards, so it may be shared by any
// number of concurrent pair evaluations without locking.
type SourceUnit struct {
	ID          string
	ContentHash [32]byte
	Source      []byte

	Tokens   []parser.Token
	TokenErr error

	Tree    *parser.Tree
	TreeErr error

	NGrams       *roaring64.Bitmap
	Fingerprints *FingerprintSet
	Subtrees     []uint64
}

// ContentHash returns the blake3 digest used to deduplicate identical files
func ContentHash(source []byte) [32]byte {
	return blake3.Sum256(source)
}

// BuildSourceUnit parses source once and derives all representations.
// Failures are recorded on the unit rather than returned: a lexing failure
// sets TokenErr and TreeErr, a syntax error sets only TreeErr.
func BuildSourceUnit(ctx context.Context, p *parser.Parser, id string, source []byte, opts Options) *SourceUnit {
	u := &SourceUnit{
		ID:          id,
		ContentHash: ContentHash(source),
		Source:      source,
	}

	result, err := p.Parse(ctx, source)
	if err != nil {
		u.TokenErr = domain.NewUnparseableSourceError(id, err)
		u.TreeErr = u.TokenErr
		return u
	}
	defer result.Close()

	u.Tokens, err = parser.Tokenize(result)
	if err != nil {
		u.TokenErr = domain.NewUnparseableSourceError(id, err)
		u.TreeErr = u.TokenErr
		return u
	}
	u.NGrams = NGramSet(u.Tokens, opts.NGram)
	u.Fingerprints = Winnow(u.Tokens, opts.KGram, opts.Window)

	u.Tree, err = parser.Normalize(result)
	if err != nil {
		u.TreeErr = domain.NewASTParseError(id, err)
		return u
	}
	u.Subtrees = SubtreeHashes(u.Tree)
	return u
}

// WithID returns a shallow copy of u under another identifier. Representations
// are shared; they are immutable.
func (u *SourceUnit) WithID(id string) *SourceUnit {
	cp := *u
	cp.ID = id
	return &cp
}

// HexHash returns the content hash in hex
func (u *SourceUnit) HexHash() string {
	return hex.EncodeToString(u.ContentHash[:])
}

// Status summarises the unit for reporting
func (u *SourceUnit) Status() domain.UnitStatus {
	st := domain.UnitStatus{
		ID:          u.ID,
		ContentHash: u.HexHash(),
		Tokens:      len(u.Tokens),
		Nodes:       u.Tree.Size(),
	}
	if u.Fingerprints != nil {
		st.Fingerprints = u.Fingerprints.Len()
	}
	if u.TokenErr != nil {
		st.Errors = append(st.Errors, domain.AsDomainError(u.TokenErr, domain.ErrCodeUnparseableSource))
	} else if u.TreeErr != nil {
		st.Errors = append(st.Errors, domain.AsDomainError(u.TreeErr, domain.ErrCodeASTParse))
	}
	return st
}

// lineOf returns the 1-based line of token i, clamped to the sequence
func (u *SourceUnit) lineOf(i int) int {
	if len(u.Tokens) == 0 {
		return 0
	}
	i = max(0, min(i, len(u.Tokens)-1))
	return u.Tokens[i].Line
}
