package reflection

import (
	"bytes"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	info := &Info{
		EntryPoint: "main",
		Stage:      "compute",
		Workgroup:  [3]uint32{64, 1, 1},
		Resources: []Resource{
			{Name: "Params", Kind: KindUniformBuffer, Set: 0, Binding: 1, Size: 80},
			{Name: "Particles", Kind: KindStorageBuffer, Set: 0, Binding: 2, Size: 1024},
			{Name: "tex", Kind: KindSampledImage, Binding: 3},
		},
		Varyings: []Varying{
			{Name: "uv", Location: 2, Input: true},
		},
	}

	var buf bytes.Buffer
	if err := info.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.EntryPoint != info.EntryPoint || decoded.Stage != info.Stage {
		t.Errorf("Entry/stage %q/%q, want %q/%q",
			decoded.EntryPoint, decoded.Stage, info.EntryPoint, info.Stage)
	}
	if decoded.Workgroup != info.Workgroup {
		t.Errorf("Workgroup %v, want %v", decoded.Workgroup, info.Workgroup)
	}
	if len(decoded.Resources) != len(info.Resources) {
		t.Fatalf("Got %d resources, want %d", len(decoded.Resources), len(info.Resources))
	}
	for i, r := range decoded.Resources {
		if r != info.Resources[i] {
			t.Errorf("Resource %d is %+v, want %+v", i, r, info.Resources[i])
		}
	}
	if len(decoded.Varyings) != 1 || decoded.Varyings[0] != info.Varyings[0] {
		t.Errorf("Varyings %+v, want %+v", decoded.Varyings, info.Varyings)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte{0xC1})); err == nil {
		t.Error("Decode should reject invalid MessagePack")
	}
}

func TestResourceLookup(t *testing.T) {
	info := &Info{Resources: []Resource{
		{Name: "a", Kind: KindUniformBuffer},
		{Name: "b", Kind: KindStorageBuffer},
	}}
	if r := info.Resource("b"); r == nil || r.Kind != KindStorageBuffer {
		t.Errorf("Resource(b) = %+v, want storage buffer", r)
	}
	if r := info.Resource("missing"); r != nil {
		t.Errorf("Resource(missing) = %+v, want nil", r)
	}
}
