package catalog

import "cvgen/internal/defaults"

const (
	CoreSource    = "opencv_core.txt"
	ImgprocSource = "opencv_imgproc.txt"
)

// Core lists the opencv_core operations to generate.
func Core() Collection {
	return NewCollection("opencv_core", CoreSource,
		NewMethod("add", false, "Mat", "Mat", "Mat"),
		NewMethod("subtract", false, "Mat", "Mat", "Mat").Describe("Calculates the per-pixel difference between two images"),
		NewMethod("multiply", false, "Mat", "Mat", "Mat"),
		NewMethod("divide", false, "Mat", "Mat", "Mat"),
		NewMethod("scaleAdd", false, "Mat", "double", "Mat", "Mat"),
		NewMethod("normalize", false, "Mat", "Mat"),
		NewMethod("batchDistance", false, "Mat", "Mat"),
		NewMethod("addWeighted", false, "Mat"),
		NewMethod("flip", false, "Mat", "Mat"),
		NewMethod("bitwise_and", false, "Mat", "Mat"),
		NewMethod("bitwise_or", false, "Mat", "Mat"),
		NewMethod("bitwise_xor", false, "Mat", "Mat"),
		NewMethod("bitwise_not", false, "Mat", "Mat"),
		NewMethod("absdiff", false, "Mat", "Mat"),
		// ToDo: inRange crashes the native side, add it back once that is fixed.
		NewMethodWith("compare", true,
			Param("Mat"),
			Param("Mat"),
			Param("Mat"),
			Param("int").WithLiteralDefault("CMP_EQ"),
		),
		NewMethod("max", false, "Mat", "Mat"),
		NewMethod("min", false, "Mat", "Mat"),
	).SetOutputDefaults("dst")
}

// Imgproc lists the opencv_imgproc operations to generate.
func Imgproc() Collection {
	return NewCollection("opencv_imgproc", ImgprocSource,
		NewMethod("Sobel", false, "Mat", "Mat"),
		NewMethod("medianBlur", false, "Mat", "Mat"),
		NewMethodWith("GaussianBlur", false,
			Param("Mat"),
			Param("Mat"),
			Param("Size").WithDefault(defaults.Construct("Size", "1", "1")),
		),
		NewMethod("Laplacian", true, "Mat", "Mat"),
		NewMethod("dilate", false, "Mat", "Mat"),
		NewMethodWith("Canny", false, Param("Mat"), Param("Mat").AsOutput()),
		NewMethod("cornerMinEigenVal", false, "Mat", "Mat"),
		NewMethod("cornerHarris", false, "Mat", "Mat"),
		NewMethod("cornerEigenValsAndVecs", false, "Mat", "Mat"),
	).SetOutputDefaults("dst")
}

// Builtin returns the built-in collections in processing order.
func Builtin() []Collection {
	return []Collection{Core(), Imgproc()}
}
