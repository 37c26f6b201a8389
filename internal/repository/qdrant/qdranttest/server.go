// Package qdranttest поднимает in-process gRPC-сервер с подмножеством API Qdrant
// (коллекции и точки) для тестов репозиториев и приложения.
package qdranttest

import (
	"context"
	"math"
	"net"
	"sort"
	"sync"
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type collection struct {
	size     uint64
	distance qdrant.Distance
	points   map[uint64]*qdrant.PointStruct
}

// Server — фейковый Qdrant. Поддерживает Create/Delete/CollectionExists, Upsert и Search.
type Server struct {
	mu          sync.Mutex
	collections map[string]*collection
	apiKeys     []string
	calls       []string

	// FailOn заставляет указанные методы вернуть ошибку с этим статусом.
	FailOn map[string]*status.Status

	host string
	port int
}

// Start поднимает сервер на 127.0.0.1 со случайным портом и останавливает его по завершении теста.
func Start(t *testing.T) *Server {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	addr := lis.Addr().(*net.TCPAddr)
	s := &Server{
		collections: make(map[string]*collection),
		FailOn:      make(map[string]*status.Status),
		host:        addr.IP.String(),
		port:        addr.Port,
	}

	gs := grpc.NewServer(grpc.UnaryInterceptor(s.recordAPIKey))
	qdrant.RegisterCollectionsServer(gs, &collectionsServer{srv: s})
	qdrant.RegisterPointsServer(gs, &pointsServer{srv: s})

	go func() {
		_ = gs.Serve(lis)
	}()
	t.Cleanup(gs.Stop)

	return s
}

// Host возвращает хост, на котором слушает сервер.
func (s *Server) Host() string {
	return s.host
}

// Port возвращает порт сервера.
func (s *Server) Port() int {
	return s.port
}

// Calls возвращает имена вызванных методов в порядке вызова.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// APIKeys возвращает значения заголовка api-key из полученных запросов.
func (s *Server) APIKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.apiKeys...)
}

// Fail настраивает ошибку для метода (например, "Create", "Upsert", "Search").
func (s *Server) Fail(method string, code codes.Code, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailOn[method] = status.New(code, msg)
}

// Points возвращает сохраненные точки коллекции.
func (s *Server) Points(name string) map[uint64]*qdrant.PointStruct {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return nil
	}

	out := make(map[uint64]*qdrant.PointStruct, len(c.points))
	for id, p := range c.points {
		out[id] = p
	}
	return out
}

// CollectionConfig возвращает размерность и метрику коллекции.
func (s *Server) CollectionConfig(name string) (uint64, qdrant.Distance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return 0, 0, false
	}
	return c.size, c.distance, true
}

func (s *Server) recordAPIKey(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		s.mu.Lock()
		s.apiKeys = append(s.apiKeys, md.Get("api-key")...)
		s.mu.Unlock()
	}

	return handler(ctx, req)
}

// enter фиксирует вызов и возвращает настроенную ошибку. Вызывается под s.mu.
func (s *Server) enter(method string) error {
	s.calls = append(s.calls, method)
	if st, ok := s.FailOn[method]; ok {
		return st.Err()
	}
	return nil
}

// collectionsServer и pointsServer разделяют состояние Server: оба сервиса
// объявляют методы с одинаковыми именами (Get, Delete), поэтому один тип не может реализовать оба.
type collectionsServer struct {
	qdrant.UnimplementedCollectionsServer
	srv *Server
}

func (c *collectionsServer) Create(ctx context.Context, req *qdrant.CreateCollection) (*qdrant.CollectionOperationResponse, error) {
	return c.srv.createCollection(ctx, req)
}

func (c *collectionsServer) Delete(ctx context.Context, req *qdrant.DeleteCollection) (*qdrant.CollectionOperationResponse, error) {
	return c.srv.deleteCollection(ctx, req)
}

func (c *collectionsServer) CollectionExists(ctx context.Context, req *qdrant.CollectionExistsRequest) (*qdrant.CollectionExistsResponse, error) {
	return c.srv.collectionExists(ctx, req)
}

type pointsServer struct {
	qdrant.UnimplementedPointsServer
	srv *Server
}

func (p *pointsServer) Upsert(ctx context.Context, req *qdrant.UpsertPoints) (*qdrant.PointsOperationResponse, error) {
	return p.srv.upsertPoints(ctx, req)
}

func (p *pointsServer) Search(ctx context.Context, req *qdrant.SearchPoints) (*qdrant.SearchResponse, error) {
	return p.srv.searchPoints(ctx, req)
}

func (s *Server) createCollection(_ context.Context, req *qdrant.CreateCollection) (*qdrant.CollectionOperationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("Create"); err != nil {
		return nil, err
	}

	if _, ok := s.collections[req.GetCollectionName()]; ok {
		return nil, status.Errorf(codes.AlreadyExists, "Collection `%s` already exists!", req.GetCollectionName())
	}

	params := req.GetVectorsConfig().GetParams()
	if params == nil {
		return nil, status.Error(codes.InvalidArgument, "vectors config is required")
	}

	s.collections[req.GetCollectionName()] = &collection{
		size:     params.GetSize(),
		distance: params.GetDistance(),
		points:   make(map[uint64]*qdrant.PointStruct),
	}

	return &qdrant.CollectionOperationResponse{Result: true}, nil
}

func (s *Server) deleteCollection(_ context.Context, req *qdrant.DeleteCollection) (*qdrant.CollectionOperationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("Delete"); err != nil {
		return nil, err
	}

	_, ok := s.collections[req.GetCollectionName()]
	delete(s.collections, req.GetCollectionName())

	return &qdrant.CollectionOperationResponse{Result: ok}, nil
}

func (s *Server) collectionExists(_ context.Context, req *qdrant.CollectionExistsRequest) (*qdrant.CollectionExistsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("CollectionExists"); err != nil {
		return nil, err
	}

	_, ok := s.collections[req.GetCollectionName()]
	return &qdrant.CollectionExistsResponse{Result: &qdrant.CollectionExists{Exists: ok}}, nil
}

func (s *Server) upsertPoints(_ context.Context, req *qdrant.UpsertPoints) (*qdrant.PointsOperationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("Upsert"); err != nil {
		return nil, err
	}

	c, ok := s.collections[req.GetCollectionName()]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "Collection `%s` doesn't exist!", req.GetCollectionName())
	}

	for _, p := range req.GetPoints() {
		vec := denseData(p.GetVectors().GetVector())
		if uint64(len(vec)) != c.size {
			return nil, status.Errorf(codes.InvalidArgument,
				"Wrong input: Vector dimension error: expected dim: %d, got %d", c.size, len(vec))
		}
	}

	for _, p := range req.GetPoints() {
		c.points[p.GetId().GetNum()] = p
	}

	return &qdrant.PointsOperationResponse{
		Result: &qdrant.UpdateResult{Status: qdrant.UpdateStatus_Completed},
	}, nil
}

func (s *Server) searchPoints(_ context.Context, req *qdrant.SearchPoints) (*qdrant.SearchResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enter("Search"); err != nil {
		return nil, err
	}

	c, ok := s.collections[req.GetCollectionName()]
	if !ok {
		return nil, status.Errorf(codes.NotFound, "Collection `%s` doesn't exist!", req.GetCollectionName())
	}

	if uint64(len(req.GetVector())) != c.size {
		return nil, status.Errorf(codes.InvalidArgument,
			"Wrong input: Vector dimension error: expected dim: %d, got %d", c.size, len(req.GetVector()))
	}

	withPayload := req.GetWithPayload().GetEnable()
	hits := make([]*qdrant.ScoredPoint, 0, len(c.points))
	for id, p := range c.points {
		hit := &qdrant.ScoredPoint{
			Id:    qdrant.NewIDNum(id),
			Score: cosine(req.GetVector(), denseData(p.GetVectors().GetVector())),
		}
		if withPayload {
			hit.Payload = p.GetPayload()
		}
		hits = append(hits, hit)
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].GetScore() > hits[j].GetScore()
	})
	if limit := req.GetLimit(); uint64(len(hits)) > limit {
		hits = hits[:limit]
	}

	return &qdrant.SearchResponse{Result: hits, Time: 0.001}, nil
}

// denseData достает плотный вектор как из устаревшего поля data, так и из dense.
func denseData(v *qdrant.Vector) []float32 {
	if data := v.GetData(); len(data) > 0 {
		return data
	}
	return v.GetDense().GetData()
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// ClosedAddr возвращает адрес порта, на котором никто не слушает.
func ClosedAddr(t *testing.T) (string, int) {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := lis.Addr().(*net.TCPAddr)
	_ = lis.Close()

	return addr.IP.String(), addr.Port
}
