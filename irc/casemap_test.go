package irc

import "testing"

func TestCasemap(t *testing.T) {
	tests := []struct {
		input   string
		ascii   string
		rfc1459 string
	}{
		{"", "", ""},
		{"Alice", "alice", "alice"},
		{"#Chan", "#chan", "#chan"},
		{"[Foo]\\Bar~", "[foo]\\bar~", "{foo}|bar^"},
		{"{foo}|bar^", "{foo}|bar^", "{foo}|bar^"},
		{"ÉCOLE", "École", "École"},
	}

	for _, test := range tests {
		if actual := CasemapASCII(test.input); actual != test.ascii {
			t.Errorf("ascii %q: expected %q, got %q", test.input, test.ascii, actual)
		}
		if actual := CasemapRFC1459(test.input); actual != test.rfc1459 {
			t.Errorf("rfc1459 %q: expected %q, got %q", test.input, test.rfc1459, actual)
		}
	}
}
