package parties

import (
	"strings"

	"github.com/kaplanhukuk/uyap-importer/internal/model"
	"github.com/kaplanhukuk/uyap-importer/pkg/logger"
)

// Classifier decides which extracted parties are represented by the office.
// The roster is injected so a different office, or a test, can supply its
// own lawyer names.
type Classifier struct {
	roster               []string
	clientRoleKeywords   []string
	opponentRoleKeywords []string
	logger               *logger.Logger
}

// Result groups the classified parties. The primary entry of each side is
// index 0; its counsel field is the side's representative lawyer list.
type Result struct {
	ClientSide      []model.Party
	OpponentSide    []model.Party
	ClientLawyers   []string
	OpponentLawyers []string
}

// New creates a classifier for the given lawyer roster. Role keywords are
// only consulted when no roster name appears on any party.
func New(roster, clientRoleKeywords, opponentRoleKeywords []string, log *logger.Logger) *Classifier {
	upper := make([]string, len(roster))
	for i, name := range roster {
		upper[i] = strings.ToUpper(strings.TrimSpace(name))
	}
	return &Classifier{
		roster:               upper,
		clientRoleKeywords:   clientRoleKeywords,
		opponentRoleKeywords: opponentRoleKeywords,
		logger:               log,
	}
}

// Classify splits the parties into our side and theirs. A party is ours when
// any name in its comma-split counsel field contains a roster name. When the
// roster matches nobody and some parties remain, roles decide instead; that
// fallback may leave both sides empty, which callers must read as "no party
// information", not as an error.
func (c *Classifier) Classify(all []model.Party) Result {
	var res Result

	for _, party := range all {
		if c.hasOurLawyer(party.Counsel) {
			res.ClientSide = append(res.ClientSide, party)
		} else {
			res.OpponentSide = append(res.OpponentSide, party)
		}
	}

	if len(res.ClientSide) == 0 && len(res.OpponentSide) > 0 {
		c.logger.Warn("No roster lawyer found on any party, falling back to role keywords")
		res.ClientSide = nil
		res.OpponentSide = nil
		for _, party := range all {
			role := strings.ToLower(party.Capacity)
			switch {
			case containsAny(role, c.clientRoleKeywords):
				res.ClientSide = append(res.ClientSide, party)
			case containsAny(role, c.opponentRoleKeywords):
				res.OpponentSide = append(res.OpponentSide, party)
			}
		}
	}

	if len(res.ClientSide) > 0 {
		res.ClientLawyers = SplitCounsel(res.ClientSide[0].Counsel)
	}
	if len(res.OpponentSide) > 0 {
		res.OpponentLawyers = SplitCounsel(res.OpponentSide[0].Counsel)
	}

	return res
}

func (c *Classifier) hasOurLawyer(counsel string) bool {
	for _, name := range strings.Split(strings.ToUpper(counsel), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		for _, ours := range c.roster {
			if ours != "" && strings.Contains(name, ours) {
				return true
			}
		}
	}
	return false
}

// SplitCounsel splits a free-text counsel field into individual lawyer
// names, dropping placeholders and bracket noise.
func SplitCounsel(counsel string) []string {
	if counsel == "" || counsel == "-" {
		return nil
	}

	var names []string
	for _, part := range strings.Split(counsel, ",") {
		name := strings.TrimSpace(strings.NewReplacer("[", "", "]", "").Replace(part))
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
