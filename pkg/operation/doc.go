/*
Package operation orchestrates a package-name reservation run.

	+---------+   +------------+   +----------+   +-------+   +---------+   +--------+
	|  Stage  |-->| Substitute |-->| Finalize |-->| Prune |-->| Publish |-->| Record |
	+---------+   +------------+   +----------+   +-------+   +---------+   +--------+

🎯 Purpose:
- Drives the stages in strict forward order, one at a time
- Owns the disposable workspace lifecycle (created first, removed last)
- Downgrades cleanup and log-write failures to warnings

📝 Design Philosophy:
The original project tree is read-only for the whole run. Every mutation
happens inside the staged workspace, which is uniquely named per run, so
concurrent invocations never share filesystem state. The registry itself is
the arbiter for concurrent reservations of the same name.
*/
package operation
