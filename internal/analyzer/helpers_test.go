package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/ludo-technologies/codeguard/internal/parser"
)

func buildUnit(t *testing.T, id, src string) *SourceUnit {
	t.Helper()
	p := parser.New()
	defer p.Close()
	return BuildSourceUnit(context.Background(), p, id, []byte(src), DefaultOptions())
}

func toks(texts ...string) []parser.Token {
	out := make([]parser.Token, len(texts))
	for i, s := range texts {
		out[i] = parser.Token{Kind: parser.TokenIdentifier, Text: s, Line: i + 1, Column: 1}
	}
	return out
}

func fields(s string) []parser.Token {
	return toks(strings.Fields(s)...)
}

const inventorySource = `import json


def load_inventory(path):
    with open(path) as handle:
        records = json.load(handle)
    return {item["sku"]: item for item in records}


def restock(inventory, sku, amount):
    if amount <= 0:
        raise ValueError("amount must be positive")
    entry = inventory.get(sku)
    if entry is None:
        entry = {"sku": sku, "count": 0}
        inventory[sku] = entry
    entry["count"] += amount
    return entry["count"]


def low_stock(inventory, limit=5):
    result = []
    for sku, entry in inventory.items():
        if entry["count"] < limit:
            result.append(sku)
    result.sort()
    return result


def total_units(inventory):
    total = 0
    for entry in inventory.values():
        total += entry["count"]
    return total
`

// inventorySource with every local name, parameter and function renamed.
const inventoryRenamed = `import json


def read_db(fname):
    with open(fname) as fh:
        rows = json.load(fh)
    return {r["sku"]: r for r in rows}


def add_items(db, code, qty):
    if qty <= 0:
        raise ValueError("amount must be positive")
    rec = db.get(code)
    if rec is None:
        rec = {"sku": code, "count": 0}
        db[code] = rec
    rec["count"] += qty
    return rec["count"]


def find_short(db, threshold=5):
    out = []
    for code, rec in db.items():
        if rec["count"] < threshold:
            out.append(code)
    out.sort()
    return out


def count_all(db):
    acc = 0
    for rec in db.values():
        acc += rec["count"]
    return acc
`

const unrelatedSource = `class Matrix:
    def __init__(self, rows, cols):
        self.rows = rows
        self.cols = cols
        self.data = [[0.0] * cols for _ in range(rows)]

    def transpose(self):
        out = Matrix(self.cols, self.rows)
        for r in range(self.rows):
            for c in range(self.cols):
                out.data[c][r] = self.data[r][c]
        return out

    def scale(self, factor):
        while factor > 10:
            factor = factor / 2
        return [[v * factor for v in row] for row in self.data]
`
