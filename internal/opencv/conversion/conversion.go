package conversion

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// MatToImage converts an 8-bit GoCV Mat to a standard Go image
func MatToImage(src gocv.Mat) (image.Image, error) {
	if src.Empty() {
		return nil, fmt.Errorf("empty Mat")
	}

	rows := src.Rows()
	cols := src.Cols()
	data := src.ToBytes()

	switch src.Channels() {
	case 1:
		return grayToImage(data, rows, cols)
	case 3:
		return bgrToRGBA(data, rows, cols)
	case 4:
		return bgraToRGBA(data, rows, cols)
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", src.Channels())
	}
}

func grayToImage(data []byte, rows, cols int) (*image.Gray, error) {
	if len(data) < rows*cols {
		return nil, fmt.Errorf("short buffer: %d bytes for %dx%d", len(data), cols, rows)
	}
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	copy(img.Pix, data[:rows*cols])
	return img, nil
}

// bgrToRGBA reorders OpenCV's BGR layout into RGBA
func bgrToRGBA(data []byte, rows, cols int) (*image.RGBA, error) {
	pixels := rows * cols
	if len(data) < pixels*3 {
		return nil, fmt.Errorf("short buffer: %d bytes for %dx%d BGR", len(data), cols, rows)
	}

	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < pixels; i++ {
		s := i * 3
		d := i * 4
		img.Pix[d] = data[s+2]
		img.Pix[d+1] = data[s+1]
		img.Pix[d+2] = data[s]
		img.Pix[d+3] = 0xff
	}
	return img, nil
}

func bgraToRGBA(data []byte, rows, cols int) (*image.RGBA, error) {
	pixels := rows * cols
	if len(data) < pixels*4 {
		return nil, fmt.Errorf("short buffer: %d bytes for %dx%d BGRA", len(data), cols, rows)
	}

	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for i := 0; i < pixels; i++ {
		s := i * 4
		img.Pix[s] = data[s+2]
		img.Pix[s+1] = data[s+1]
		img.Pix[s+2] = data[s]
		img.Pix[s+3] = data[s+3]
	}
	return img, nil
}
