package journal

// SetRunIDsForTests makes BeginRun hand out ids in order and returns a
// restore function.
func SetRunIDsForTests(ids ...string) func() {
	prev := newRunID
	next := 0
	newRunID = func() string {
		id := ids[next%len(ids)]
		next++
		return id
	}
	return func() { newRunID = prev }
}
