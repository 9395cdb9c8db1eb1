package service

// Submissions shared by the service tests.

const gradebookSource = `import csv


def read_scores(path):
    scores = {}
    with open(path) as handle:
        for row in csv.DictReader(handle):
            scores[row["student"]] = float(row["score"])
    return scores


def letter(score):
    if score >= 90:
        return "A"
    if score >= 80:
        return "B"
    if score >= 70:
        return "C"
    return "F"


def report(scores):
    lines = []
    for name in sorted(scores):
        lines.append(name + ": " + letter(scores[name]))
    return "\n".join(lines)


def average(scores):
    if not scores:
        return 0.0
    total = 0.0
    for value in scores.values():
        total += value
    return total / len(scores)
`

// gradebookSource with every local name, parameter and function renamed.
const gradebookRenamed = `import csv


def load(fname):
    marks = {}
    with open(fname) as fh:
        for r in csv.DictReader(fh):
            marks[r["student"]] = float(r["score"])
    return marks


def grade(m):
    if m >= 90:
        return "A"
    if m >= 80:
        return "B"
    if m >= 70:
        return "C"
    return "F"


def render(marks):
    out = []
    for who in sorted(marks):
        out.append(who + ": " + grade(marks[who]))
    return "\n".join(out)


def mean(marks):
    if not marks:
        return 0.0
    acc = 0.0
    for v in marks.values():
        acc += v
    return acc / len(marks)
`

const queueSource = `class Queue:
    def __init__(self):
        self.items = []

    def push(self, item):
        self.items.append(item)

    def pop(self):
        if not self.items:
            raise IndexError("pop from empty queue")
        return self.items.pop(0)

    def __len__(self):
        return len(self.items)


def drain(queue):
    while len(queue) > 0:
        yield queue.pop()
`

const primesSource = `def sieve(limit):
    flags = [True] * (limit + 1)
    flags[0] = flags[1] = False
    n = 2
    while n * n <= limit:
        if flags[n]:
            for k in range(n * n, limit + 1, n):
                flags[k] = False
        n += 1
    return [i for i, ok in enumerate(flags) if ok]
`

// Two independent answers to a fixed-output exercise.
const helloOneLiner = `print("Hello, World!")
`

const helloStructured = `def main():
    greeting = "Hello, World!"
    print(greeting)


if __name__ == "__main__":
    main()
`

const brokenSource = gradebookSource + `

def broken(:
    pass
`

func filesOf(kv ...string) map[string][]byte {
	out := make(map[string][]byte, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i]] = []byte(kv[i+1])
	}
	return out
}
