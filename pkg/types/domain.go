package types

// Model represents a discoverable .tflite model on disk.
type Model struct {
	// Stable identifier for the model.
	// example: mobilenet_v2
	ID string `json:"id" example:"mobilenet_v2"`
	// Human-friendly name.
	// example: MobileNet V2
	Name string `json:"name" example:"MobileNet V2"`
	// Absolute path to the model file on disk.
	// example: /srv/models/mobilenet_v2.tflite
	Path string `json:"path" example:"/srv/models/mobilenet_v2.tflite"`
	// File size in bytes.
	// example: 13978904
	SizeBytes int64 `json:"size_bytes,omitempty" example:"13978904"`
}

// Tensor is one named tensor crossing the JSON API, row-major float32 data.
type Tensor struct {
	// Tensor name as declared by the model signature. Optional on inputs
	// when they are given in declaration order.
	// example: input_1
	Name string `json:"name,omitempty" example:"input_1"`
	// Shape of the tensor.
	// example: [1,4]
	Dims []int32 `json:"dims"`
	// Flattened row-major values.
	Data []float32 `json:"data"`
}

// NumElements returns the product of Dims, or 0 for a dynamic shape.
func (t Tensor) NumElements() int {
	n := 1
	for _, d := range t.Dims {
		if d < 0 {
			return 0
		}
		n *= int(d)
	}
	return n
}
