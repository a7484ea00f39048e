package midcodecs

func init() {
	register(10, noopCodec{})
}
