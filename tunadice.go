package tunadice

// file tunadice.go is the package façade: Roller ties together parsing (with
// its cache), evaluation, the roll budget, and a Source into the one type
// most callers need, plus a default Roller and package-level convenience
// functions bound to it for one-off callers that don't care about
// configuring any of that (mirroring how tunascript exposes both an
// Interpreter type and flat package-level helpers).

// Roller evaluates dice expressions against one configured roll budget,
// parse cache, and randomness Source. It is not safe for concurrent use:
// RollContext, the parse cache, and a seeded Source are all private,
// unsynchronized state, same as every stateful type in this package.
type Roller struct {
	cfg      Config
	rc       *RollContext
	cache    *parseCache
	src      Source
	suffixes map[string]bool
}

// NewRoller builds a Roller from cfg, drawing randomness from src. A nil src
// uses math/rand's global source.
func NewRoller(cfg Config, src Source) *Roller {
	if src == nil {
		src = defaultSource{}
	}
	return &Roller{
		cfg:      cfg,
		rc:       NewRollContext(cfg.MaxRolls),
		cache:    newParseCache(cfg.ParseCacheSize),
		src:      src,
		suffixes: cfg.ambiguitySuffixes(),
	}
}

// NewDefaultRoller builds a Roller with DefaultConfig and math/rand's global
// source.
func NewDefaultRoller() *Roller {
	return NewRoller(DefaultConfig(), nil)
}

// Parse parses text, consulting and populating the Roller's parse cache.
func (r *Roller) Parse(text string, allowComments bool) (ExpressionNode, error) {
	if cached, ok := r.cache.get(text); ok {
		return cached, nil
	}
	ast, err := parseWithSuffixes(text, allowComments, r.suffixes)
	if err != nil {
		return ExpressionNode{}, err
	}
	r.cache.put(text, ast)
	return ast, nil
}

// Roll parses text (rescuing a trailing free-text comment per spec.md
// section 4.2) and evaluates it, drawing fresh dice against a freshly reset
// roll budget.
func (r *Roller) Roll(text string) (RollResult, error) {
	ast, err := r.Parse(text, true)
	if err != nil {
		return RollResult{}, err
	}
	return r.rollAST(ast)
}

// RollAdvantage is Roll, but rewrites the first dice expression on the
// leftmost spine of the parsed roll to roll twice and keep the higher (or,
// if !advantage, the lower) result before evaluating.
func (r *Roller) RollAdvantage(text string, advantage bool) (RollResult, error) {
	ast, err := r.Parse(text, true)
	if err != nil {
		return RollResult{}, err
	}
	rewritten := AdvantageCopy(ast, advantage)
	return r.rollAST(rewritten.(ExpressionNode))
}

func (r *Roller) rollAST(ast ExpressionNode) (RollResult, error) {
	r.rc.reset()
	expr, err := Evaluate(r.rc, r.src, ast)
	if err != nil {
		return RollResult{}, err
	}
	return RollResult{Expression: expr}, nil
}

// RollsUsed returns how many dice the most recent Roll call drew.
func (r *Roller) RollsUsed() int { return r.rc.Rolls() }

// RollResult is the outcome of a single Roll call.
type RollResult struct {
	Expression
}

func (r RollResult) String() string {
	return SimpleStringifier{}.Stringify(r.Expression)
}

// Markdown renders the result the way MarkdownStringifier does: dropped
// elements struck through, the total in a backtick span.
func (r RollResult) Markdown() string {
	return MarkdownStringifier{}.Stringify(r.Expression)
}

// CritType classifies a roll's natural-20/natural-1 status, a d20-specific
// reading of its kept d20 dies.
type CritType int

const (
	CritNone CritType = iota
	CritSuccess
	CritFail
)

func (c CritType) String() string {
	switch c {
	case CritSuccess:
		return "crit"
	case CritFail:
		return "fail"
	default:
		return "none"
	}
}

// Crit reports whether the roll's crit die - the Dice found by walking the
// leftmost-children chain from the root (spec.md section 4.9) - is a d20
// with exactly one kept die showing a natural 20 (CritSuccess) or natural 1
// (CritFail). Anything else on the spine (a non-d20, a multi-die keptset, no
// Dice at all) is CritNone: crit status is a property of that one leading
// die, not of every d20 anywhere in the expression.
func (r RollResult) Crit() CritType {
	leaf := ExprLeftmost(r.Roll)
	dice, ok := leaf.(*ExprDice)
	if !ok || dice.IsPercent || dice.Size != 20 {
		return CritNone
	}

	var kept *ExprDie
	count := 0
	for _, d := range dice.Dies {
		if d.Kept() {
			count++
			kept = d
		}
	}
	if count != 1 {
		return CritNone
	}

	switch kept.Number() {
	case 20:
		return CritSuccess
	case 1:
		return CritFail
	default:
		return CritNone
	}
}

// defaultRoller backs the package-level convenience functions below, for
// callers that just want to roll something without configuring a Roller.
var defaultRoller = NewDefaultRoller()

// Roll parses and evaluates text using a shared default Roller.
func Roll(text string) (RollResult, error) {
	return defaultRoller.Roll(text)
}

// RollAdvantage is RollAdvantage on the shared default Roller.
func RollAdvantage(text string, advantage bool) (RollResult, error) {
	return defaultRoller.RollAdvantage(text, advantage)
}
