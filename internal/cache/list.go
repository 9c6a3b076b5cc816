package cache

// node is an entry in the recency list. It carries its key so the
// oldest entry can be dropped from the map in O(1).
type node[K comparable] struct {
	key        K
	prev, next *node[K]
}

// list orders keys by recency: front is the most recently used. It is
// not synchronized; Cache holds its lock around every call.
type list[K comparable] struct {
	front, back *node[K]
	n           int
}

func (l *list[K]) len() int { return l.n }

func (l *list[K]) pushFront(key K) *node[K] {
	nd := &node[K]{key: key}
	l.link(nd)
	return nd
}

func (l *list[K]) touch(nd *node[K]) {
	if nd == l.front {
		return
	}
	l.unlink(nd)
	l.link(nd)
}

// popBack removes the least recently used key.
func (l *list[K]) popBack() (K, bool) {
	if l.back == nil {
		var zero K
		return zero, false
	}
	nd := l.back
	l.unlink(nd)
	return nd.key, true
}

func (l *list[K]) remove(nd *node[K]) { l.unlink(nd) }

func (l *list[K]) reset() {
	l.front, l.back, l.n = nil, nil, 0
}

func (l *list[K]) link(nd *node[K]) {
	nd.prev = nil
	nd.next = l.front
	if l.front != nil {
		l.front.prev = nd
	}
	l.front = nd
	if l.back == nil {
		l.back = nd
	}
	l.n++
}

func (l *list[K]) unlink(nd *node[K]) {
	if nd.prev != nil {
		nd.prev.next = nd.next
	} else {
		l.front = nd.next
	}
	if nd.next != nil {
		nd.next.prev = nd.prev
	} else {
		l.back = nd.prev
	}
	nd.prev, nd.next = nil, nil
	l.n--
}
