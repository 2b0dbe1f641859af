/*
Package patch applies guarded pattern replacements to an in-memory document.

	+-----------+      +-----------+      +-----------+
	| Document  | ---> |   Apply   | ---> | Document' |
	| (snapshot)|      |  (Rule)   |      | + Result  |
	+-----------+      +-----+-----+      +-----------+
	                         |
	                  count == expected?
	                   no: unchanged doc,
	                   CountMismatchError

🎯 Purpose:
- Turn a text substitution into an operation that either does exactly
  what the rule says or does nothing at all
- Report enough context (counts, first and last match lines) to fix a
  rule without re-running it under a debugger

🔄 Flow:
 1. MatchAll the rule's pattern against the current text
 2. Compare the number of matches with the pattern's expected count
 3. On a match, render every replacement and splice them into a new Document
 4. ApplyAll feeds each rule the output of the previous one

⚡ Guarantees:
- Apply never partially substitutes. The returned Document is either the
  input or the fully patched text.
- Documents are values; nothing is mutated in place.
- Rules are not idempotent. Running a successful rule set against its own
  output is expected to fail with a count of zero.

📝 Authoring rules:
Rules run strictly in order and later rules see text introduced by earlier
ones. If a replacement happens to contain text that a later rule's pattern
also matches, the later rule will count it. That is the rule author's
concern; the engine does not try to detect or prevent it, and the count
contract usually surfaces it as a mismatch.

🔍 Example:

	p, _ := pattern.Regex(`<a>.*?</a>`, "s", 1)
	rule, _ := patch.NewRule("anchor", p, patch.Literal("<b>Y</b>"))

	doc, res := patch.Apply(patch.NewDocument("index.html", "<a>X</a>"), rule)
	// doc.Text() == "<b>Y</b>", res.Applied == true, res.Matched == 1
*/
package patch
