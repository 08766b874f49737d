package buffer

import "sync"

type Sum float64

func (s Sum) Float64() float64 {
	return float64(s)
}

// Boxcar is a fixed-depth circular sample window. The running sum is
// maintained incrementally - remove the value falling out of the window,
// add the new one - so it always equals the sum of the current contents
// without a rescan.
type Boxcar struct {
	position int
	size     int
	data     []float64
	sum      float64
	lock     sync.Mutex
}

func NewBoxcar(size int) *Boxcar {
	b := Boxcar{}
	b.size = size
	b.data = make([]float64, size)
	return &b
}

func (b *Boxcar) AddItem(val float64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.sum -= b.data[b.position]
	b.data[b.position] = val
	b.sum += val
	b.position += 1
	if b.position == b.size {
		b.position = 0
	}
}

func (b *Boxcar) GetSum() Sum {
	b.lock.Lock()
	defer b.lock.Unlock()
	return Sum(b.sum)
}

func (b *Boxcar) GetSize() int {
	return b.size
}
