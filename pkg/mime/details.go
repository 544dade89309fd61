package mime

// IsImage Test if the detected type belongs to the image catagory
func (m *Details) IsImage() bool {
	return m != nil && m.Catagory == "image"
}
