package transform

// Default builds the standard registry.
//
// Order: element rules (heading, quote, code, list), format rules (bold,
// italic, strikethrough, inline code), the link matcher, and finally the
// image rule. Paragraphs are the serializer's fallback and are not registered.
func Default() *Registry {
	reg := NewRegistry()
	reg.MustRegister(
		NewHeadingTransformer(),
		NewQuoteTransformer(),
		NewCodeTransformer(),
		NewListTransformer(),

		NewBoldTransformer(),
		NewItalicTransformer(),
		NewStrikethroughTransformer(),
		NewCodeFormatTransformer(),

		NewLinkTransformer(),

		NewImageTransformer(),
	)
	return reg
}
