// doc.go: sinkdag builds an exact whole-string membership automaton over a
// fixed dictionary of targets.
//
// Unlike a general Aho-Corasick automaton, sinkdag never looks for a
// substring match and carries no failure links: every target's final
// transition lands on one shared sink node, except a target that is a
// strict prefix of a longer one, whose last node is flagged terminal
// instead. A rejecting walk either runs out of transitions or stops on a
// non-terminal node. Construction happens in four phases:
// 1. Insert: build a prefix trie whose final edges point at sink
// 2. Index: find maximal linear suffix chains ending at sink
// 3. Merge: rewire parent edges onto a canonical chain, reclaim duplicates
// 4. Freeze: drop the transient reverse-edge index, assert invariants
//
// After Freeze the automaton is immutable and safe for concurrent Match and
// MatchMany calls.

package sinkdag
