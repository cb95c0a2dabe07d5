package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		ok     bool
		target string
	}{
		{"plain", `#include "a.h"`, true, "a.h"},
		{"leading whitespace", "  \t#include \"dir/b.hpp\"", true, "dir/b.hpp"},
		{"trailing whitespace", `#include "c.h"   `, true, "c.h"},
		{"no space before quote", `#include"d.h"`, true, "d.h"},
		{"tab separator", "#include\t\"e.h\"", true, "e.h"},
		{"angle brackets", `#include <vector>`, false, ""},
		{"trailing comment", `#include "a.h" // note`, false, ""},
		{"inside text", `// #include "a.h"`, false, ""},
		{"unterminated", `#include "a.h`, false, ""},
		{"pragma", `#pragma once`, false, ""},
		{"empty", ``, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Parse(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.target, d.Target)
				assert.Equal(t, tt.line, d.Raw)
			}
		})
	}
}

func TestSystemHeaders(t *testing.T) {
	set := SystemHeaders()
	assert.True(t, set.Contains("vector"))
	assert.True(t, set.Contains("bits/stdc++.h"))
	assert.False(t, set.Contains("vector.h"))
	assert.False(t, set.Contains("my_sys.h"))
}

func TestSystemHeadersExtraDoesNotLeak(t *testing.T) {
	base := SystemHeaders().Len()

	extended := SystemHeaders("my_sys.h", "")
	assert.True(t, extended.Contains("my_sys.h"))
	assert.True(t, extended.Contains("iostream"))
	assert.Equal(t, base+1, extended.Len())

	assert.False(t, SystemHeaders().Contains("my_sys.h"))
}

func TestZeroHeaderSet(t *testing.T) {
	var set HeaderSet
	assert.False(t, set.Contains("vector"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Local", Local.String())
	assert.Equal(t, "SystemHeader", SystemHeader.String())
	assert.Equal(t, "Excluded", Excluded.String())
	assert.Equal(t, "Unknown", Kind(9).String())
}
