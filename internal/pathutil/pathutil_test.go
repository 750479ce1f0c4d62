package pathutil

import "testing"

func TestJoin(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		child    string
		expected string
	}{
		{"simple", "/Shared", "a.py", "/Shared/a.py"},
		{"trailing slash on dir", "/Shared/", "a.py", "/Shared/a.py"},
		{"root dir", "/", "Users", "/Users"},
		{"nested", "/Users/test/dst", "sub", "/Users/test/dst/sub"},
		{"child with dots is cleaned", "/Shared/x", "../y", "/Shared/y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join(tt.dir, tt.child); got != tt.expected {
				t.Errorf("Join(%q, %q) = %q, want %q", tt.dir, tt.child, got, tt.expected)
			}
		})
	}
}

func TestBase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/Shared/a.py", "a.py"},
		{"/Shared/sub/", "sub"},
		{"/", "/"},
		{"", "/"},
		{"notebook", "notebook"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Base(tt.input); got != tt.expected {
				t.Errorf("Base(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"/", "/"},
		{"/Shared/", "/Shared"},
		{"/Shared//a", "/Shared/a"},
		{"/Shared/./a", "/Shared/a"},
	}

	for _, tt := range tests {
		if got := Clean(tt.input); got != tt.expected {
			t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIsAbs(t *testing.T) {
	if !IsAbs("/Users/test") {
		t.Error("expected /Users/test to be absolute")
	}
	if IsAbs("Users/test") {
		t.Error("expected Users/test to be relative")
	}
	if IsAbs("") {
		t.Error("expected empty path to be relative")
	}
}
