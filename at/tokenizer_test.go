package at_test

import (
	"bufio"
	"strings"
	"testing"

	"digitalpetro.in/bpcl/fwdl/at"
)

func TestSplitter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple AT command response",
			input:    "ATE0\r\nOK\r\n",
			expected: []string{"ATE0", "OK"},
		},
		{
			name:     "SIM status with error",
			input:    "AT+CPIN?\r\n+CME ERROR: 10\r\n",
			expected: []string{"AT+CPIN?", "+CME ERROR: 10"},
		},
		{
			name:     "HTTP GET result",
			input:    "+QHTTPGET: 0,200,102400\r\nOK\r\n",
			expected: []string{"+QHTTPGET: 0,200,102400", "OK"},
		},
		{
			name:     "Connect signal before payload",
			input:    "CONNECT\r\n",
			expected: []string{"CONNECT"},
		},
		{
			name:     "Empty lines handling",
			input:    "\r\n\r\nAT\r\nOK\r\n\r\n",
			expected: []string{"", "", "AT", "OK", ""},
		},
		{
			name:     "Trailing data without CRLF at EOF",
			input:    "OK\r\n+QHTT",
			expected: []string{"OK", "+QHTT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			scanner.Split(at.Splitter)

			var tokens []string
			for scanner.Scan() {
				tokens = append(tokens, scanner.Text())
			}
			if err := scanner.Err(); err != nil {
				t.Fatalf("scanner error: %v", err)
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("got %d tokens %q, want %d %q", len(tokens), tokens, len(tt.expected), tt.expected)
			}
			for i, want := range tt.expected {
				if tokens[i] != want {
					t.Errorf("token %d: got %q, want %q", i, tokens[i], want)
				}
			}
		})
	}
}
