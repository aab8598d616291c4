// Package agg folds parsed git log entries into team alignment and hotspot summaries.
//
// Every type in this package is driven by a single goroutine: Add must not be
// called concurrently, which matches the callback contract of gitlog.Parse.
package agg

import (
	"sort"
	"strings"

	"github.com/huangsam/teamspot/core/gitlog"
	"github.com/huangsam/teamspot/schema"
)

// TeamAlignment accumulates changed lines per scope and per team (or user).
type TeamAlignment struct {
	scopes     []string
	teamNames  []string
	userToTeam map[string]string
	byUser     bool
	modules    map[string]schema.ModuleDetails
	users      map[string]struct{}
}

// NewTeamAlignment creates an aggregator for the given scopes and teams.
// teams maps a team name to its members. With byUser set, changes are keyed
// by author name instead of team.
func NewTeamAlignment(scopes []string, teams map[string][]string, byUser bool) *TeamAlignment {
	ta := &TeamAlignment{
		scopes:     append([]string(nil), scopes...),
		userToTeam: make(map[string]string),
		byUser:     byUser,
		modules:    make(map[string]schema.ModuleDetails, len(scopes)),
		users:      make(map[string]struct{}),
	}

	for team, users := range teams {
		ta.teamNames = append(ta.teamNames, team)
		for _, user := range users {
			ta.userToTeam[user] = team
		}
	}
	sort.Strings(ta.teamNames)

	for _, scope := range scopes {
		ta.modules[scope] = schema.ModuleDetails{Changes: make(map[string]int)}
	}
	return ta
}

// key returns the column an author's changes are booked under.
func (ta *TeamAlignment) key(userName string) string {
	if ta.byUser {
		return userName
	}
	if team, ok := ta.userToTeam[userName]; ok {
		return team
	}
	return schema.UnknownTeam
}

// Add folds one entry. A change counts towards every scope that prefixes its path.
func (ta *TeamAlignment) Add(entry gitlog.LogEntry) {
	key := ta.key(entry.Header.UserName)
	for _, change := range entry.Body {
		for _, scope := range ta.scopes {
			if !strings.HasPrefix(change.Path, scope) {
				continue
			}
			ta.modules[scope].Changes[key] += change.LinesAdded + change.LinesRemoved
			if ta.byUser {
				ta.users[key] = struct{}{}
			}
		}
	}
}

// Result returns a snapshot of the matrix.
//
// In team mode Teams lists the configured teams sorted by name followed by
// schema.UnknownTeam. In user mode it lists the authors that touched at least
// one scope, sorted by name.
func (ta *TeamAlignment) Result() schema.TeamAlignmentResult {
	res := schema.TeamAlignmentResult{
		Scopes:  append([]string(nil), ta.scopes...),
		Modules: make(map[string]schema.ModuleDetails, len(ta.modules)),
	}

	for scope, details := range ta.modules {
		changes := make(map[string]int, len(details.Changes))
		for k, v := range details.Changes {
			changes[k] = v
		}
		res.Modules[scope] = schema.ModuleDetails{Changes: changes}
	}

	if ta.byUser {
		res.Teams = make([]string, 0, len(ta.users))
		for user := range ta.users {
			res.Teams = append(res.Teams, user)
		}
		sort.Strings(res.Teams)
		return res
	}

	res.Teams = make([]string, 0, len(ta.teamNames)+1)
	res.Teams = append(res.Teams, ta.teamNames...)
	res.Teams = append(res.Teams, schema.UnknownTeam)
	return res
}
