package agenda

import (
	"fmt"
	"sort"
	"strings"

	domainErrors "github.com/thomas-vilte/agenda-generator/internal/errors"
)

// Variant names one of the meetings an agenda can be generated for.
type Variant string

const (
	VariantLibsAPI       Variant = "libs-api"
	VariantLibs          Variant = "libs"
	VariantErrorHandling Variant = "error-handling"
)

// Agenda is the fixed layout of one meeting's document.
type Agenda struct {
	// Title is followed by the current UTC date.
	Title string
	// Preamble is written verbatim between the title and the triage section.
	Preamble string
	// FCPLabel selects the proposals listed in the FCP section; empty skips it.
	FCPLabel       string
	Queries        []Query
	ActionItemsURL string
}

const (
	repoRust          = "rust-lang/rust"
	repoRFCs          = "rust-lang/rfcs"
	repoLibsTeam      = "rust-lang/libs-team"
	repoErrorHandling = "rust-lang/project-error-handling"
)

// Agendas holds every known meeting layout.
var Agendas = map[Variant]Agenda{
	VariantLibsAPI:       libsAPIAgenda(),
	VariantLibs:          libsAgenda(),
	VariantErrorHandling: errorHandlingAgenda(),
}

// ParseVariant maps a command-line name to a Variant.
func ParseVariant(name string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := Agendas[v]; !ok {
		return "", domainErrors.ErrUnknownVariant.WithError(fmt.Errorf("%q", name))
	}
	return v, nil
}

// Variants lists the known variants by name.
func Variants() []Variant {
	out := make([]Variant, 0, len(Agendas))
	for v := range Agendas {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func libsAPIAgenda() Agenda {
	return Agenda{
		Title: "Libs-API Meeting",
		Preamble: lines(
			"###### tags: `Libs Meetings` `Minutes`",
			"",
			"**Meeting Link**: https://meet.jit.si/rust-libs-meeting-crxoz2at8hiccp7b3ixf89qgxfymlbwr",
			"**Attendees**: ...",
			"",
			"## Agenda",
			"",
			"- [Open action items](https://hackmd.io/ovrbJj6CRduRgSA0Wzg2zg)",
			"- Triage",
			"- Anything else?",
		),
		FCPLabel: "T-libs-api",
		Queries: []Query{
			NewQuery("Nominated").
				WithLabels("T-libs-api", "I-nominated").
				WithRepo(repoLibsTeam).
				WithRepo(repoRust).
				WithRepo(repoRFCs),
			NewQuery("Waiting on team").
				WithLabels("T-libs-api", "S-waiting-on-team").
				WithRepo(repoRust).
				WithRepo(repoRFCs),
			NewQuery("Needs decision").
				WithLabels("T-libs-api", "I-needs-decision").
				WithRepo(repoRust),
			NewQuery("Stalled Tracking Issues").
				WithLabels("T-libs-api", "C-tracking-issue").
				WithRepo(repoRust).
				WithSort(SortLeastRecentlyUpdated).
				WithLimit(5),
		},
		ActionItemsURL: "https://hackmd.io/ovrbJj6CRduRgSA0Wzg2zg",
	}
}

func libsAgenda() Agenda {
	return Agenda{
		Title: "Libs Meeting",
		Preamble: lines(
			"###### tags: `Libs Meetings` `Minutes`",
			"",
			"**Meeting Link**: https://meet.jit.si/rust-libs-meeting-ujepnbwg2lzqgt6wvrndwimi",
			"**Attendees**: ...",
			"",
			"## Agenda",
			"",
			"- Triage",
			"    - [Open Action Items](https://hackmd.io/Uehlc0qUQfWfvY1swYWRgQ)",
			"    - Critical Issues",
			"    - MCPs",
			"- Anything else?",
		),
		FCPLabel: "T-libs",
		Queries: []Query{
			NewQuery("Critical").
				WithLabels("T-libs", "P-critical").
				WithLabels("T-libs-api", "P-critical").
				WithRepo(repoRust).
				WithRepo(repoRFCs),
			NewQuery("Prioritization Requested").
				WithLabels("T-libs", "I-prioritize").
				WithLabels("T-libs-api", "I-prioritize").
				WithRepo(repoRust).
				WithRepo(repoRFCs),
			NewQuery("Nominated").
				WithLabels("T-libs", "I-nominated").
				WithRepo(repoRust).
				WithRepo(repoRFCs).
				WithRepo(repoLibsTeam),
			NewQuery("Backports").
				WithLabels("T-libs", "stable-nominated").
				WithLabels("T-libs-api", "stable-nominated").
				WithLabels("T-libs", "beta-nominated").
				WithLabels("T-libs-api", "beta-nominated").
				WithExcludedLabels("beta-accepted").
				WithState(StateAny).
				WithRepo(repoRust).
				WithRepo(repoRFCs),
			NewQuery("Regressions").
				WithLabels("T-libs", "regression-untriaged").
				WithLabels("T-libs-api", "regression-untriaged").
				WithLabels("T-libs", "regression-from-stable-to-stable").
				WithLabels("T-libs-api", "regression-from-stable-to-stable").
				WithLabels("T-libs", "regression-from-stable-to-beta").
				WithLabels("T-libs-api", "regression-from-stable-to-beta").
				WithLabels("T-libs", "regression-from-stable-to-nightly").
				WithLabels("T-libs-api", "regression-from-stable-to-nightly").
				WithExcludedLabels("T-libs-api", "I-nominated").
				WithRepo(repoRust).
				WithRepo(repoRFCs),
		},
		ActionItemsURL: "https://hackmd.io/Uehlc0qUQfWfvY1swYWRgQ",
	}
}

func errorHandlingAgenda() Agenda {
	return Agenda{
		Title: "Project Group Error Handling Meeting",
		Preamble: lines(
			"###### tags: `Error Handling` `Minutes`",
			"",
			"**Attendees**: ...",
			"",
			"## Agenda Items",
			"",
			"- [Open action items](https://hackmd.io/@rust-libs/Hyj7kRSld)",
			"- Triage",
			"- Individual Status Updates",
		),
		FCPLabel: "PG-error-handling",
		Queries: []Query{
			NewQuery("Nominated").
				WithLabels("PG-error-handling", "I-nominated").
				WithRepo(repoRust).
				WithRepo(repoErrorHandling),
			NewQuery("PG Error Handling").
				WithLabels("PG-error-handling").
				WithRepo(repoRust).
				WithRepo(repoErrorHandling),
			NewQuery("Area Error Handling").
				WithLabels("A-error-handling").
				WithRepo(repoRust),
			// No label group, so this section always renders "None".
			NewQuery("PG Error Handling").
				WithRepo(repoErrorHandling),
		},
		ActionItemsURL: "https://hackmd.io/UrERZvi5RwyxfGvo-RtC6g",
	}
}
