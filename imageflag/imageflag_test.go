package imageflag_test

import (
	"testing"

	"github.com/gokrazy/minifs/imageflag"
	"github.com/spf13/pflag"
)

func TestParameters(t *testing.T) {
	for _, tt := range []struct {
		desc        string
		args        []string
		wantSizeKiB int
		wantInodes  int
	}{
		{
			desc:        "explicit",
			args:        []string{"--size-kib=2048", "--inodes=256"},
			wantSizeKiB: 2048,
			wantInodes:  256,
		},
		{
			desc:        "preset",
			args:        []string{"--preset=max"},
			wantSizeKiB: 4096,
			wantInodes:  512,
		},
		{
			desc:        "preset with override",
			args:        []string{"--preset=tiny", "--inodes=200"},
			wantSizeKiB: 180,
			wantInodes:  200,
		},
	} {
		t.Run(tt.desc, func(t *testing.T) {
			imageflag.SetSizeKiB(1024)
			imageflag.SetInodes(128)
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			imageflag.RegisterPflags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			sizeKiB, inodes, err := imageflag.Parameters(fs)
			if err != nil {
				t.Fatal(err)
			}
			if sizeKiB != tt.wantSizeKiB || inodes != tt.wantInodes {
				t.Errorf("Parameters(%q) = %d, %d, want %d, %d",
					tt.args, sizeKiB, inodes, tt.wantSizeKiB, tt.wantInodes)
			}
		})
	}
}

func TestUnknownPreset(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	imageflag.RegisterPflags(fs)
	if err := fs.Parse([]string{"--preset=huge"}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := imageflag.Parameters(fs); err == nil {
		t.Fatalf("Parameters(--preset=huge) succeeded")
	}
}
