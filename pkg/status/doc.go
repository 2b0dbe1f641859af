/*
Package status owns file storage and rule outcome reporting for guardpatch.

	            +-------------+
	            |   Status    |
	            |  (Storage)  |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|   Files   |           |  Rules  |
	| (Atomic)  |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Reads target files and writes them back atomically
- Classifies rule results (applied, mismatch, invalid, failed, skipped)
- Formats per-rule lines for the console

⚡ Atomic writes:
WriteFileAtomic writes to a hidden temp file next to the target, syncs
it, copies the original permissions and renames it over the target. A
failure at any step removes the temp file and leaves the target as it was.

🤝 Interfaces:
- FileManager: the seam the runner reads and writes through; tests swap it
  for a mock to simulate I/O failures
*/
package status
