package directive

// systemHeaders lists standard library headers that are left for the
// compiler to find.
var systemHeaders = map[string]struct{}{
	"bits/stdc++.h": {},
	"intrin.h":      {},

	// C compatibility headers
	"cassert": {}, "cctype": {}, "cerrno": {}, "cfloat": {}, "ciso646": {},
	"climits": {}, "clocale": {}, "cmath": {}, "csetjmp": {}, "csignal": {},
	"cstdarg": {}, "cstddef": {}, "cstdio": {}, "cstdlib": {}, "cstring": {},
	"ctime": {}, "cwchar": {}, "cwctype": {}, "ccomplex": {}, "cfenv": {},
	"cinttypes": {}, "cstdalign": {}, "cstdbool": {}, "cstdint": {},
	"ctgmath": {}, "cuchar": {},

	// C++98
	"algorithm": {}, "bitset": {}, "complex": {}, "deque": {}, "exception": {},
	"fstream": {}, "functional": {}, "iomanip": {}, "ios": {}, "iosfwd": {},
	"iostream": {}, "istream": {}, "iterator": {}, "limits": {}, "list": {},
	"locale": {}, "map": {}, "memory": {}, "new": {}, "numeric": {},
	"ostream": {}, "queue": {}, "set": {}, "sstream": {}, "stack": {},
	"stdexcept": {}, "streambuf": {}, "string": {}, "typeinfo": {},
	"utility": {}, "valarray": {}, "vector": {},

	// C++11
	"array": {}, "atomic": {}, "chrono": {}, "codecvt": {},
	"condition_variable": {}, "forward_list": {}, "future": {},
	"initializer_list": {}, "mutex": {}, "random": {}, "ratio": {},
	"regex": {}, "scoped_allocator": {}, "system_error": {}, "thread": {},
	"tuple": {}, "typeindex": {}, "type_traits": {}, "unordered_map": {},
	"unordered_set": {},

	// C++14/17
	"shared_mutex": {}, "any": {}, "charconv": {}, "execution": {},
	"filesystem": {}, "optional": {}, "memory_resource": {},
	"string_view": {}, "variant": {},

	// C++20
	"barrier": {}, "bit": {}, "compare": {}, "concepts": {}, "coroutine": {},
	"latch": {}, "numbers": {}, "ranges": {}, "span": {}, "stop_token": {},
	"semaphore": {}, "source_location": {}, "syncstream": {}, "version": {},
}

// HeaderSet is a read-only set of header names.
type HeaderSet struct {
	names map[string]struct{}
}

// SystemHeaders returns the built-in table extended with extra names. The
// built-in table itself is never modified.
func SystemHeaders(extra ...string) HeaderSet {
	if len(extra) == 0 {
		return HeaderSet{names: systemHeaders}
	}
	names := make(map[string]struct{}, len(systemHeaders)+len(extra))
	for name := range systemHeaders {
		names[name] = struct{}{}
	}
	for _, name := range extra {
		if name != "" {
			names[name] = struct{}{}
		}
	}
	return HeaderSet{names: names}
}

// Contains reports whether name is a system header.
func (s HeaderSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len is the number of names in the set.
func (s HeaderSet) Len() int {
	return len(s.names)
}
