package keys

import "testing"

func Test(t *testing.T) {
	key, err := NewKey()
	if err != nil {
		t.Fatal(err)
	}

	plaintext := "Hello, World!"

	sealed, err := key.Seal([]byte(plaintext))
	if err != nil {
		t.Fatal(err)
	}

	opened, err := key.Open(sealed)
	if err != nil {
		t.Fatal(err)
	}

	if plaintext != string(opened) {
		t.Fatal("sealed != opened")
	}
}

func TestTamperDetected(t *testing.T) {
	key, err := NewKey()
	if err != nil {
		t.Fatal(err)
	}

	sealed, err := key.Seal([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	sealed[len(sealed)-1] ^= 0xff

	if _, err := key.Open(sealed); err == nil {
		t.Fatal("tampered ciphertext opened without error")
	}
}

func TestParseKey(t *testing.T) {
	for _, size := range []int{16, 24, 32} {
		if _, err := ParseKey(make([]byte, size)); err != nil {
			t.Errorf("ParseKey(%d bytes): %s", size, err)
		}
	}
	if _, err := ParseKey(make([]byte, 20)); err == nil {
		t.Error("ParseKey(20 bytes): expected error")
	}
}
