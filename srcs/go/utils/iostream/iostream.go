package iostream

import (
	"bufio"
	"fmt"
	"io"
)

// Tee copies r line by line to every w.
func Tee(r io.Reader, ws ...io.Writer) error {
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			for _, w := range ws {
				fmt.Fprint(w, line)
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
