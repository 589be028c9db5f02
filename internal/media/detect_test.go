package media

import "testing"

func TestIsSupportedExt(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".flac", ".ogg"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".aac", ".m4a", ".m3u", ""} {
		if IsSupportedExt(ext) {
			t.Fatalf("expected %q to be unsupported", ext)
		}
	}
}

func TestIsSupportedPath(t *testing.T) {
	if !IsSupportedPath("/music/Song.Name.FLAC") {
		t.Fatal("expected upper-case .FLAC path to be supported")
	}
	if IsSupportedPath("notes.txt") {
		t.Fatal("expected .txt to be unsupported")
	}
}

func TestSupportedExtsListIsSorted(t *testing.T) {
	if got, want := SupportedExtsList(), ".flac, .mp3, .ogg, .wav"; got != want {
		t.Fatalf("SupportedExtsList = %q, want %q", got, want)
	}
}
